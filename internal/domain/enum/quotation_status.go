package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus int

const (
	QuotationStatusDraft     QuotationStatus = 0
	QuotationStatusSent      QuotationStatus = 1
	QuotationStatusApproved  QuotationStatus = 2
	QuotationStatusRejected  QuotationStatus = 3
	QuotationStatusExpired   QuotationStatus = 4
	QuotationStatusConverted QuotationStatus = 5
	QuotationStatusSigned    QuotationStatus = 6
)

// StatusMeta is the display metadata of a status. HTML output, exports and the
// API all read it from statusTable.
type StatusMeta struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	LabelZH  string `json:"labelZh"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
	Terminal bool   `json:"terminal"`
}

var statusTable = [...]StatusMeta{
	QuotationStatusDraft:     {Key: "draft", Label: "Draft", LabelZH: "草稿", Color: "#6b7280", Icon: "file-edit"},
	QuotationStatusSent:      {Key: "sent", Label: "Sent", LabelZH: "已發送", Color: "#2563eb", Icon: "send"},
	QuotationStatusApproved:  {Key: "approved", Label: "Approved", LabelZH: "已核准", Color: "#16a34a", Icon: "check-circle"},
	QuotationStatusRejected:  {Key: "rejected", Label: "Rejected", LabelZH: "已拒絕", Color: "#dc2626", Icon: "x-circle", Terminal: true},
	QuotationStatusExpired:   {Key: "expired", Label: "Expired", LabelZH: "已過期", Color: "#f97316", Icon: "clock", Terminal: true},
	QuotationStatusConverted: {Key: "converted", Label: "Converted", LabelZH: "已轉專案", Color: "#7c3aed", Icon: "folder-check", Terminal: true},
	QuotationStatusSigned:    {Key: "signed", Label: "Signed", LabelZH: "已簽約", Color: "#059669", Icon: "pen-tool"},
}

// AllQuotationStatuses returns every status in declaration order.
func AllQuotationStatuses() []QuotationStatus {
	out := make([]QuotationStatus, len(statusTable))
	for i := range statusTable {
		out[i] = QuotationStatus(i)
	}
	return out
}

// IsValid reports whether s is a known status.
func (s QuotationStatus) IsValid() bool {
	return s >= 0 && int(s) < len(statusTable)
}

// Meta returns the display metadata for s.
func (s QuotationStatus) Meta() StatusMeta {
	if !s.IsValid() {
		return StatusMeta{Key: "unknown", Label: "Unknown", LabelZH: "未知", Color: "#9ca3af", Icon: "help-circle"}
	}
	return statusTable[s]
}

func (s QuotationStatus) String() string {
	return s.Meta().Key
}

// ParseQuotationStatus parses the persisted key of a status.
func ParseQuotationStatus(key string) (QuotationStatus, error) {
	for i, m := range statusTable {
		if m.Key == key {
			return QuotationStatus(i), nil
		}
	}
	return QuotationStatusDraft, fmt.Errorf("unknown quotation status %q", key)
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !QuotationStatus(i).IsValid() {
			return fmt.Errorf("unknown quotation status %d", i)
		}
		*s = QuotationStatus(i)
		return nil
	}
	parsed, err := ParseQuotationStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuotationStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuotationStatus(v)
	case int:
		*s = QuotationStatus(v)
	case string:
		parsed, err := ParseQuotationStatus(v)
		if err != nil {
			return err
		}
		*s = parsed
	}
	return nil
}
