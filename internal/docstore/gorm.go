package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is the GORM row backing one stored document. JSON payloads are
// kept as text so decimal amounts round-trip exactly on both Postgres and
// SQLite.
type Document struct {
	Collection string `gorm:"primaryKey;size:32"`
	Key        string `gorm:"primaryKey;size:128"`
	Owner      string `gorm:"index;size:512"`
	Data       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the table name used by GORM.
func (Document) TableName() string {
	return "documents"
}

func (d Document) toDoc() Doc {
	return Doc{
		Key:    d.Key,
		Owner:  d.Owner,
		Exists: true,
		Data:   json.RawMessage(d.Data),
	}
}

// GormStore implements Store on a relational documents table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a document store backed by the given GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Read(ctx context.Context, collection, key string) (Doc, error) {
	var row Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Doc{Key: key}, nil
	}
	if err != nil {
		return Doc{}, err
	}
	return row.toDoc(), nil
}

func (s *GormStore) Set(ctx context.Context, collection, key, owner string, data []byte) error {
	row := Document{
		Collection: collection,
		Key:        key,
		Owner:      owner,
		Data:       string(data),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "data", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Document
		err := tx.Where("collection = ? AND key = ?", collection, key).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		merged, err := mergeFields([]byte(row.Data), fields)
		if err != nil {
			return err
		}

		return tx.Model(&Document{}).
			Where("collection = ? AND key = ?", collection, key).
			Update("data", string(merged)).Error
	})
}

func (s *GormStore) Delete(ctx context.Context, collection, key string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&Document{}).Error
}

func (s *GormStore) DeleteByPrefix(ctx context.Context, collection, keyPrefix string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND key LIKE ?", collection, keyPrefix+"%").
		Delete(&Document{}).Error
}

func (s *GormStore) List(ctx context.Context, collection, member string, limit, offset int) ([]Doc, int64, error) {
	query := s.db.WithContext(ctx).Model(&Document{}).Where("collection = ?", collection)
	if member != "" {
		// Owner holds space-delimited member ids; pad both sides so the
		// match is on whole ids only.
		query = query.Where("(' ' || owner || ' ') LIKE ?", "% "+member+" %")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var rows []Document
	if err := query.Order("key").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	docs := make([]Doc, len(rows))
	for i, row := range rows {
		docs[i] = row.toDoc()
	}
	return docs, total, nil
}
