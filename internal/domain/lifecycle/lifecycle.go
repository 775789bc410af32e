// Package lifecycle validates and applies quotation status transitions.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSignatureRequired = errors.New("signature is required")
	ErrProjectRequired   = errors.New("project id is required")
	ErrNotEditable       = errors.New("only draft quotations can be edited")
)

// transitions lists, for each state, the states reachable through the normal
// flow. Signing and conversion are included so CanTransition answers for them too.
var transitions = map[enum.QuotationStatus][]enum.QuotationStatus{
	enum.QuotationStatusDraft:    {enum.QuotationStatusSent, enum.QuotationStatusSigned},
	enum.QuotationStatusSent:     {enum.QuotationStatusApproved, enum.QuotationStatusRejected, enum.QuotationStatusExpired, enum.QuotationStatusSigned},
	enum.QuotationStatusApproved: {enum.QuotationStatusSigned, enum.QuotationStatusConverted},
	enum.QuotationStatusSigned:   {enum.QuotationStatusConverted},
}

// Allowed returns the states reachable from from.
func Allowed(from enum.QuotationStatus) []enum.QuotationStatus {
	return append([]enum.QuotationStatus(nil), transitions[from]...)
}

// CanTransition reports whether from → to is defined.
func CanTransition(from, to enum.QuotationStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Editable reports whether items, categories and terms may still change.
func Editable(status enum.QuotationStatus) bool {
	return status == enum.QuotationStatusDraft
}

// Transition moves q to status to, stamping sentAt or approvedAt. Signing and
// conversion carry extra data and go through Sign and Convert instead.
func Transition(q *entity.Quotation, to enum.QuotationStatus, now time.Time) error {
	switch to {
	case enum.QuotationStatusSigned:
		return fmt.Errorf("%w: use the signing flow", ErrInvalidTransition)
	case enum.QuotationStatusConverted:
		return fmt.Errorf("%w: use the conversion flow", ErrInvalidTransition)
	}
	if err := check(q.Status, to); err != nil {
		return err
	}
	switch to {
	case enum.QuotationStatusSent:
		q.SentAt = &now
	case enum.QuotationStatusApproved:
		q.ApprovedAt = &now
	}
	q.Status = to
	q.UpdatedAt = now
	return nil
}

// Sign attaches the customer's signature and forces the signed state.
func Sign(q *entity.Quotation, signature string, now time.Time) error {
	if signature == "" {
		return ErrSignatureRequired
	}
	if err := check(q.Status, enum.QuotationStatusSigned); err != nil {
		return err
	}
	q.Signature = signature
	q.SignedAt = &now
	q.Status = enum.QuotationStatusSigned
	q.UpdatedAt = now
	return nil
}

// Convert records the project created from an approved or signed quotation.
func Convert(q *entity.Quotation, projectID string, now time.Time) error {
	if projectID == "" {
		return ErrProjectRequired
	}
	if err := check(q.Status, enum.QuotationStatusConverted); err != nil {
		return err
	}
	q.ConvertedProjectID = projectID
	q.Status = enum.QuotationStatusConverted
	q.UpdatedAt = now
	return nil
}

// Expire moves a sent quotation whose validity ended before now to expired.
// It reports whether q changed.
func Expire(q *entity.Quotation, now time.Time) bool {
	if q.Status != enum.QuotationStatusSent || q.ValidUntil == nil || !q.ValidUntil.Before(now) {
		return false
	}
	q.Status = enum.QuotationStatusExpired
	q.UpdatedAt = now
	return true
}

func check(from, to enum.QuotationStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}
	return nil
}
