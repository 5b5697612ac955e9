package models

import "time"

// Flow identifies which simulated processing a page drives.
type Flow string

const (
	FlowNone   Flow = ""
	FlowVerify Flow = "verify" // verifier/verify: produces a result record
	FlowUpload Flow = "upload" // institution/upload: notification only
)

// DeskState is the submission state of a flow page.
type DeskState string

const (
	DeskIdle DeskState = "idle"
	DeskBusy DeskState = "busy"
)

// VisitSnapshot is the externally visible state of one page visit.
type VisitSnapshot struct {
	ID               string               `json:"id"`
	Page             string               `json:"page"`
	Flow             Flow                 `json:"flow,omitempty"`
	Client           string               `json:"client,omitempty"`
	State            DeskState            `json:"state,omitempty"`
	Staged           []StagedFile         `json:"staged"`
	DocumentType     DocumentType         `json:"documentType,omitempty"`
	Results          []VerificationResult `json:"results"`
	PreloaderVisible bool                 `json:"preloaderVisible"`
	CreatedAt        time.Time            `json:"createdAt"`
	LastAccessed     time.Time            `json:"lastAccessed"`
}
