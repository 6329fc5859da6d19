package repositories

import (
	"strings"

	bleveindex "municipal-portal-backend/bleve/services"
	"municipal-portal-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const applicationIndex = "applications"

// ApplicationSearchDoc is the flattened shape stored in the index.
type ApplicationSearchDoc struct {
	ID              string `json:"id"`
	ApplicationCode string `json:"application_code"`
	DocumentType    string `json:"document_type"`
	Status          string `json:"status"`
	ApplicantID     string `json:"applicant_id"`
	ApplicantName   string `json:"applicant_name"`
	ApplicantEmail  string `json:"applicant_email"`
	CreatedAt       string `json:"created_at"`
}

type BleveRepositoryInterface interface {
	IndexApplication(app *models.Application) error
	IndexExistingApplications(apps []models.Application) error
	DeleteApplication(applicationID string) error
	SearchApplications(queryString string, size int) (*bleve.SearchResult, error)
}

type BleveRepository struct {
	indexer *bleveindex.IndexingService
}

func NewBleveRepository(indexer *bleveindex.IndexingService) (*BleveRepository, BleveRepositoryInterface) {
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}

func searchDocFromApplication(app *models.Application) ApplicationSearchDoc {
	return ApplicationSearchDoc{
		ID:              app.ID.String(),
		ApplicationCode: app.ApplicationCode,
		DocumentType:    string(app.DocumentType),
		Status:          string(app.Status),
		ApplicantID:     app.ApplicantID.String(),
		ApplicantName:   app.Applicant.FullName,
		ApplicantEmail:  app.Applicant.Email,
		CreatedAt:       app.CreatedAt.Format("2006-01-02"),
	}
}

func (r *BleveRepository) IndexApplication(app *models.Application) error {
	return r.indexer.IndexDocument(applicationIndex, app.ID.String(), searchDocFromApplication(app))
}

func (r *BleveRepository) IndexExistingApplications(apps []models.Application) error {
	for i := range apps {
		if err := r.IndexApplication(&apps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *BleveRepository) DeleteApplication(applicationID string) error {
	return r.indexer.DeleteDocument(applicationIndex, applicationID)
}

// SearchApplications matches against application codes, applicant names
// and emails, statuses and document types.
func (r *BleveRepository) SearchApplications(queryString string, size int) (*bleve.SearchResult, error) {
	queryString = strings.TrimSpace(queryString)

	var q query.Query
	if queryString == "" {
		q = bleve.NewMatchAllQuery()
	} else {
		match := bleve.NewMatchQuery(queryString)
		prefix := bleve.NewPrefixQuery(strings.ToLower(queryString))
		q = bleve.NewDisjunctionQuery(match, prefix)
	}

	return r.indexer.SearchIndex(applicationIndex, q, size)
}
