package interfaces

import (
	"net/http"

	"catalog-cache/internal/models"
)

//go:generate mockgen -package=mock -source=classifier.go -destination=mock/classifier.go

// Classifier categorizes an intercepted request into a request class.
// The decision is a pure function of method, URL and resource hint.
type Classifier interface {
	Classify(req *http.Request) models.RequestClass
}
