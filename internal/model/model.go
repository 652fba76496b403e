// Package model holds the typed records of the studio site.
//
// Records are validated when they are constructed, so a value obtained from
// NewInquiry always satisfies its field rules. Projects are mapped from
// stored documents by ProjectFromDocument, which checks field types only.
package model

import "github.com/go-playground/validator/v10"

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()
