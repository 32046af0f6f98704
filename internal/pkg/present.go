package pkg

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simp-lee/posadmin/internal/domain"
)

// Severity names understood by the front-end tag component.
const (
	SeveritySuccess   = "success"
	SeverityInfo      = "info"
	SeverityWarning   = "warning"
	SeverityDanger    = "danger"
	SeveritySecondary = "secondary"
)

// StatusLabel returns the display label of an enabled flag.
func StatusLabel(enabled bool) string {
	if enabled {
		return "Active"
	}
	return "Inactive"
}

// StatusSeverity returns the tag severity of an enabled flag.
func StatusSeverity(enabled bool) string {
	if enabled {
		return SeveritySuccess
	}
	return SeverityDanger
}

// OrderStatusSeverity returns the tag severity of an order status. Unknown
// statuses are secondary.
func OrderStatusSeverity(s domain.OrderStatus) string {
	switch s {
	case domain.OrderPending:
		return SeverityWarning
	case domain.OrderInProgress:
		return SeverityInfo
	case domain.OrderCompleted:
		return SeveritySuccess
	case domain.OrderCancelled:
		return SeverityDanger
	default:
		return SeveritySecondary
	}
}

// WriteCSV renders a header row followed by rows as CSV text.
func WriteCSV(columns []string, rows [][]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv rows: %w", err)
	}
	return sb.String(), nil
}

// GenerateCode returns prefix followed by a base-36 millisecond timestamp and
// a random hex suffix, upper-cased, e.g. "CUS-LX2J9K3A-1F0C".
func GenerateCode(prefix string) string {
	return generateCode(prefix, time.Now())
}

func generateCode(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	code := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix)
	if prefix == "" {
		return code
	}
	return prefix + "-" + code
}
