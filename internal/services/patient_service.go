package services

import (
	"fmt"
	"time"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"gorm.io/gorm"
)

type PatientService struct {
	db *gorm.DB
}

func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{db: db}
}

// SearchFilters narrows a doctor's patient search. Age bounds are
// mapped to birth-date windows. Condition is accepted but not applied
// yet; see the note on Search.
type SearchFilters struct {
	Gender    string
	Condition string
	AgeMin    int
	AgeMax    int
}

// Search returns active patients matching the demographic filters.
// TODO: a condition filter needs a structured diagnosis field; matching
// free text against record titles would leak record contents to
// doctors without a grant.
func (s *PatientService) Search(filters SearchFilters) ([]dto.PatientSummary, error) {
	query := s.db.Where("role = ? AND is_active = ?", models.RolePatient, true)

	if filters.Gender != "" {
		query = query.Where("gender = ?", filters.Gender)
	}

	now := time.Now()
	if filters.AgeMax > 0 {
		minBirthDate := now.AddDate(0, 0, -filters.AgeMax*365)
		query = query.Where("date_of_birth >= ?", minBirthDate)
	}
	if filters.AgeMin > 0 {
		maxBirthDate := now.AddDate(0, 0, -filters.AgeMin*365)
		query = query.Where("date_of_birth <= ?", maxBirthDate)
	}

	var patients []models.User
	if err := query.Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}

	resp := make([]dto.PatientSummary, len(patients))
	for i, p := range patients {
		resp[i] = dto.PatientSummary{
			ID:       p.ID,
			FullName: p.FullName,
			Age:      ageOf(p.DateOfBirth, now),
			Gender:   p.Gender,
			Phone:    p.Phone,
		}
	}
	return resp, nil
}

func ageOf(birthDate *time.Time, now time.Time) *int {
	if birthDate == nil {
		return nil
	}
	age := int(now.Sub(*birthDate).Hours() / 24 / 365)
	if age < 0 {
		return nil
	}
	return &age
}
