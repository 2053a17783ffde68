package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"github.com/caresync/caresync/internal/vault"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound covers both "does not exist" and "exists but
	// is not yours" so lookups cannot probe for other patients'
	// records.
	ErrRecordNotFound = errors.New("health record not found")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrGrantNotFound  = errors.New("access grant not found")
)

// FileValidationError reports why an upload was rejected. It is a
// value the handler maps to a 400 with the reason list.
type FileValidationError struct {
	Reasons []string
}

func (e *FileValidationError) Error() string {
	return "file validation failed: " + strings.Join(e.Reasons, ", ")
}

type RecordService struct {
	db    *gorm.DB
	vault *vault.Vault
}

func NewRecordService(db *gorm.DB, v *vault.Vault) *RecordService {
	return &RecordService{db: db, vault: v}
}

// UploadParams describes a file already written to the patient's
// upload directory, plus the record fields and caller origin.
type UploadParams struct {
	FilePath    string
	FileName    string
	RecordType  string
	Title       string
	Description string
	RecordDate  time.Time
	IPAddress   string
	UserAgent   string
}

// Upload runs the vault pipeline: validate, extract metadata, encrypt,
// then persist the record row and its upload audit entry in one
// transaction. A failure at any step leaves neither a database row nor
// a file on disk.
func (s *RecordService) Upload(patientID uint, p *UploadParams) (*models.HealthRecord, error) {
	result, err := s.vault.Validate(p.FilePath)
	if err != nil {
		os.Remove(p.FilePath)
		return nil, fmt.Errorf("validate upload: %w", err)
	}
	if !result.Valid {
		os.Remove(p.FilePath)
		return nil, &FileValidationError{Reasons: result.Errors}
	}

	meta, err := vault.ExtractMetadata(p.FilePath)
	if err != nil {
		os.Remove(p.FilePath)
		return nil, fmt.Errorf("extract metadata: %w", err)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		os.Remove(p.FilePath)
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	encryptedPath, err := s.vault.EncryptFile(p.FilePath)
	if err != nil {
		os.Remove(p.FilePath)
		return nil, fmt.Errorf("encrypt upload: %w", err)
	}

	record := models.HealthRecord{
		PatientID:   patientID,
		RecordType:  p.RecordType,
		Title:       p.Title,
		Description: p.Description,
		FilePath:    encryptedPath,
		FileName:    p.FileName,
		FileSize:    meta.FileSize,
		Metadata:    datatypes.JSON(metaJSON),
		RecordDate:  p.RecordDate,
		IsEncrypted: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		entry := models.AccessLog{
			UserID:    patientID,
			RecordID:  &record.ID,
			Action:    models.ActionUpload,
			Timestamp: time.Now().UTC(),
			IPAddress: p.IPAddress,
			UserAgent: p.UserAgent,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		// No row committed; drop the orphaned ciphertext too.
		os.Remove(encryptedPath)
		return nil, err
	}

	return &record, nil
}

// MyRecords lists the patient's own records. Metadata is not exposed
// here; the original bytes belong to the patient already.
func (s *RecordService) MyRecords(patientID uint) ([]dto.RecordResponse, error) {
	var records []models.HealthRecord
	if err := s.db.Where("patient_id = ?", patientID).Order("record_date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	resp := make([]dto.RecordResponse, len(records))
	for i, r := range records {
		resp[i] = dto.RecordResponse{
			ID:          r.ID,
			RecordType:  r.RecordType,
			Title:       r.Title,
			Description: r.Description,
			FileName:    r.FileName,
			RecordDate:  r.RecordDate,
			CreatedAt:   r.CreatedAt,
		}
	}
	return resp, nil
}

// GrantAccess creates a read capability from one of ownerID's records
// to an active doctor. Repeated grants intentionally create multiple
// independent edges; each is revocable on its own.
func (s *RecordService) GrantAccess(ownerID uint, req *dto.GrantAccessRequest) (uint, error) {
	var record models.HealthRecord
	err := s.db.Where("id = ? AND patient_id = ?", req.RecordID, ownerID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRecordNotFound
		}
		return 0, fmt.Errorf("load record: %w", err)
	}

	var doctor models.User
	err = s.db.Where("id = ? AND role = ? AND is_active = ?", req.DoctorID, models.RoleDoctor, true).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrDoctorNotFound
		}
		return 0, fmt.Errorf("load doctor: %w", err)
	}

	grant := models.RecordAccess{
		RecordID:  req.RecordID,
		DoctorID:  req.DoctorID,
		GrantedBy: ownerID,
		GrantedAt: time.Now().UTC(),
		ExpiresAt: req.ExpiresAt,
		IsActive:  true,
	}
	if err := s.db.Create(&grant).Error; err != nil {
		return 0, fmt.Errorf("create grant: %w", err)
	}
	return grant.ID, nil
}

// RevokeAccess deactivates a grant the owner created. The grant row
// stays behind as history; only its effect is withdrawn.
func (s *RecordService) RevokeAccess(ownerID, grantID uint) error {
	result := s.db.Model(&models.RecordAccess{}).
		Where("id = ? AND granted_by = ? AND is_active = ?", grantID, ownerID, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("revoke grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGrantNotFound
	}
	return nil
}

// ListAccessible returns the patient's records the doctor currently
// holds an effective grant for. Expiry is enforced here at read time,
// not only at grant time. Every returned record gets a "view" audit
// entry committed in the same transaction as the read, so the trail
// cannot silently lose entries.
func (s *RecordService) ListAccessible(doctorID, patientID uint, ipAddress, userAgent string) ([]dto.RecordResponse, error) {
	var resp []dto.RecordResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var records []models.HealthRecord
		err := tx.Model(&models.HealthRecord{}).
			Distinct("health_records.*").
			Joins("JOIN record_accesses ON record_accesses.record_id = health_records.id").
			Where("record_accesses.doctor_id = ? AND record_accesses.is_active = ?", doctorID, true).
			Where("record_accesses.expires_at IS NULL OR record_accesses.expires_at > ?", now).
			Where("health_records.patient_id = ?", patientID).
			Find(&records).Error
		if err != nil {
			return fmt.Errorf("list accessible records: %w", err)
		}

		resp = make([]dto.RecordResponse, len(records))
		entries := make([]models.AccessLog, len(records))
		for i := range records {
			r := &records[i]
			resp[i] = dto.RecordResponse{
				ID:          r.ID,
				RecordType:  r.RecordType,
				Title:       r.Title,
				Description: r.Description,
				FileName:    r.FileName,
				RecordDate:  r.RecordDate,
				CreatedAt:   r.CreatedAt,
			}
			if len(r.Metadata) > 0 {
				var meta vault.Metadata
				if err := json.Unmarshal(r.Metadata, &meta); err == nil {
					resp[i].Metadata = &meta
				}
			}
			entries[i] = models.AccessLog{
				UserID:    doctorID,
				RecordID:  &r.ID,
				Action:    models.ActionView,
				Timestamp: now,
				IPAddress: ipAddress,
				UserAgent: userAgent,
			}
		}

		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("create audit entries: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
