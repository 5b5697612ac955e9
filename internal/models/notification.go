package models

// Severity selects how a notification is styled.
type Severity string

const (
	SeverityDefault     Severity = "default"
	SeverityDestructive Severity = "destructive"
)

// Notification is a transient acknowledgment shown to the user.
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Info builds a default-severity notification.
func Info(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityDefault}
}

// Destructive builds a destructive-severity notification.
func Destructive(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityDestructive}
}
