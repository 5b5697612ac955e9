package models

// BlacklistEntry is a flagged document shown on the institution blacklist.
type BlacklistEntry struct {
	ID           string      `json:"id" yaml:"id"`
	StudentName  string      `json:"studentName" yaml:"student_name"`
	DocumentType string      `json:"documentType" yaml:"document_type"`
	FlaggedDate  string      `json:"flaggedDate" yaml:"flagged_date"`
	FlaggedBy    string      `json:"flaggedBy" yaml:"flagged_by"`
	Reason       string      `json:"reason" yaml:"reason"`
	Status       StatusLabel `json:"status" yaml:"status"`
	Confidence   int         `json:"confidence" yaml:"confidence"`
}

// PendingInstitution is an institution signup awaiting admin review.
type PendingInstitution struct {
	ID              string `json:"id" yaml:"id"`
	InstitutionName string `json:"institutionName" yaml:"institution_name"`
	ContactPerson   string `json:"contactPerson" yaml:"contact_person"`
	Email           string `json:"email" yaml:"email"`
	Phone           string `json:"phone" yaml:"phone"`
	SubmittedDate   string `json:"submittedDate" yaml:"submitted_date"`
	Status          string `json:"status" yaml:"status"`
}

// DashboardStat is one headline figure on a portal dashboard.
type DashboardStat struct {
	Title  string `json:"title" yaml:"title"`
	Value  string `json:"value" yaml:"value"`
	Change string `json:"change" yaml:"change"`
}

// RecentVerification is a row on the verifier dashboard.
type RecentVerification struct {
	ID       string      `json:"id" yaml:"id"`
	Document string      `json:"document" yaml:"document"`
	Status   StatusLabel `json:"status" yaml:"status"`
	Date     string      `json:"date" yaml:"date"`
}

// Dashboard is what a portal dashboard renders.
type Dashboard struct {
	Portal              string               `json:"portal"`
	Stats               []DashboardStat      `json:"stats"`
	RecentVerifications []RecentVerification `json:"recentVerifications,omitempty"`
}
