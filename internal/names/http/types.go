package http

import "github.com/randomnamegen/namegen-backend/internal/names/domain"

type generateNamesRequest struct {
	Gender         string `json:"gender" binding:"omitempty,oneof=m f"`
	Usage          string `json:"usage" binding:"required,usagecode"`
	Number         int    `json:"number" binding:"required,min=1,max=10"`
	IncludeSurname *bool  `json:"includeSurname,omitempty"`

	// randomsurname is what older form builds send.
	RandomSurname  *bool `json:"randomsurname,omitempty"`
	IncludeDetails bool  `json:"includeDetails,omitempty"`
}

type generateNamesResponse struct {
	Names []domain.NameData `json:"names"`
}

type lookupNameRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=100"`
	Exact *bool  `json:"exact,omitempty"`
}

type relatedNamesRequest struct {
	Name   string `json:"name" binding:"required,notblank,max=100"`
	Usage  string `json:"usage" binding:"omitempty,usagecode"`
	Gender string `json:"gender" binding:"omitempty,oneof=m f"`
}

type relatedNamesResponse struct {
	RelatedNames []string `json:"relatedNames"`
}

type nameOriginRequest struct {
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
}

type usagesResponse struct {
	Usages []domain.Usage `json:"usages"`
}

type errorResponse struct {
	Error string `json:"error"`
}
