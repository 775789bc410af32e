package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/pkg/apperror"
)

const dateLayout = "2006-01-02"

// Helper functions for parsing query parameters
func parsePositiveInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	if err != nil || result < 1 {
		return 1, fmt.Errorf("%q is not a positive integer", s)
	}
	return result, nil
}

func parseNonNegativeInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	if err != nil || result < 0 {
		return 0, fmt.Errorf("%q is not a non-negative integer", s)
	}
	return result, nil
}

// indexParams reads the named path parameters as zero-based indexes.
func indexParams(c *gin.Context, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		n, err := parseNonNegativeInt(c.Param(name))
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid " + name + " index")
		}
		out[i] = n
	}
	return out, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Nil and blank mean no date.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid date format. Use YYYY-MM-DD")
	}
	return &t, nil
}

func bindError(err error) *apperror.AppError {
	return apperror.NewBadRequestError("Invalid request body: " + err.Error())
}
