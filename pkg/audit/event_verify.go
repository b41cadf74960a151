package audit

import "fmt"

// VerifyEvent records the outcome of verifying a presented token.
type VerifyEvent struct {
	Kind          string
	Subject       string
	ClientIP      string
	TransactionID string
	Success       bool
	ErrorMessage  string
}

func (e VerifyEvent) MessageID() string {
	return "verify"
}

func (e VerifyEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s presented a valid %s token", e.Subject, e.Kind)
	}
	msg := fmt.Sprintf("%s token refused", e.Kind)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e VerifyEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e VerifyEvent) Facility() int {
	return FacilityAuthPriv
}

func (e VerifyEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"kind": e.Kind,
			"user": e.Subject,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDTx: {
			"id": e.TransactionID,
		},
	}
}
