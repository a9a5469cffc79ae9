package model

import "time"

// Object represents a catalogued anomalous object as stored in the
// `objects` table.  The JSON tags are the public wire names; handlers pass
// a redacted copy (see package clearance) to the client.
//
// Fields:
//  ID                – uuid primary key.
//  Number            – unique designator such as "0000" or "0051".
//  Name              – display name.
//  Codename          – operational codename.
//  ThreatClass       – base threat label, optionally followed by an annotation.
//  Description       – public description.
//  SpecialProcedures – containment procedures (nullable).
//  SecretData        – level-5 only text (nullable).
//  ImageURL          – picture reference (nullable).
//  CreatedAt         – creation timestamp.
type Object struct {
	ID                string    `json:"id" yaml:"-"`
	Number            string    `json:"number" yaml:"number"`
	Name              string    `json:"name" yaml:"name"`
	Codename          string    `json:"codename" yaml:"codename"`
	ThreatClass       string    `json:"threat_class" yaml:"threat_class"`
	Description       string    `json:"description" yaml:"description"`
	SpecialProcedures *string   `json:"special_procedures" yaml:"special_procedures"`
	SecretData        *string   `json:"secret_data" yaml:"secret_data"`
	ImageURL          *string   `json:"image_url" yaml:"image_url"`
	CreatedAt         time.Time `json:"created_at" yaml:"-"`
}

// ObjectPatch carries a partial update.  Nil fields are left untouched.
type ObjectPatch struct {
	Name              *string `json:"name"`
	Codename          *string `json:"codename"`
	ThreatClass       *string `json:"threat_class"`
	Description       *string `json:"description"`
	SpecialProcedures *string `json:"special_procedures"`
	SecretData        *string `json:"secret_data"`
	ImageURL          *string `json:"image_url"`
}

// Apply copies every non-nil field of p onto o.
func (p ObjectPatch) Apply(o *Object) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Codename != nil {
		o.Codename = *p.Codename
	}
	if p.ThreatClass != nil {
		o.ThreatClass = *p.ThreatClass
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.SpecialProcedures != nil {
		o.SpecialProcedures = p.SpecialProcedures
	}
	if p.SecretData != nil {
		o.SecretData = p.SecretData
	}
	if p.ImageURL != nil {
		o.ImageURL = p.ImageURL
	}
}
