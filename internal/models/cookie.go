// Package models defines GORM data models for draw-a-ui.
package models

import "gorm.io/gorm"

// CredentialCookie is the cookie name that carries the upstream API key,
// both in the client jar and on requests to the proxy.
const CredentialCookie = "OPENAI_API_KEY"

// Cookie is one entry of the client-side cookie jar.
// A cleared cookie keeps its row with an empty Value.
type Cookie struct {
	gorm.Model

	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Value string `json:"value"`
	Path  string `gorm:"default:'/'" json:"path"`
}
