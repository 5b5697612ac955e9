// Package models contains domain types for the AuthentiQ portal server.
package models

// StagedFile is a file the user has selected but not yet submitted.
// Only the attributes the picker exposes are kept; file content is never read.
type StagedFile struct {
	Name      string `json:"name" msgpack:"name"`
	SizeBytes int64  `json:"sizeBytes" msgpack:"sizeBytes"`
	MimeHint  string `json:"mimeHint,omitempty" msgpack:"mimeHint,omitempty"`
}

// AcceptFilter is the picker's advisory accept list. It is rendered into the
// page but never enforced.
const AcceptFilter = ".pdf,.doc,.docx,.jpg,.jpeg,.png"

// AdvisoryMaxFileSize is shown next to the drop zone ("Max 10MB").
const AdvisoryMaxFileSize = 10 * 1024 * 1024

// DocumentType is the document category selected on the institution uploader.
type DocumentType string

const (
	DocumentTypeCertificate DocumentType = "certificate"
	DocumentTypeTranscript  DocumentType = "transcript"
	DocumentTypeDiploma     DocumentType = "diploma"
	DocumentTypeLicense     DocumentType = "license"
)

// DocumentTypes lists the selectable document types in display order.
var DocumentTypes = []DocumentType{
	DocumentTypeCertificate,
	DocumentTypeTranscript,
	DocumentTypeDiploma,
	DocumentTypeLicense,
}

// Valid reports whether t is one of the selectable document types.
func (t DocumentType) Valid() bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}
