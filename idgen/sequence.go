// idgen/sequence.go
package idgen

import (
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
)

const SequenceTable = "id_sequences"

// Sequence 每个前缀一行计数器，原子自增
type Sequence struct {
	Prefix    string    `gorm:"primaryKey;size:40" json:"prefix"`
	LastValue int64     `gorm:"not null" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Sequence) TableName() string { return SequenceTable }

// Spec says where codes with Prefix live so a fresh counter can be seeded
// from data that predates it.
type Spec struct {
	Table  string
	Column string
	Prefix string
	Width  int
}

// Next reserves the next code for s.Prefix. It must run on the same
// transaction as the insert that uses the code so a failed insert releases it.
func Next(tx *gorm.DB, s Spec) (string, error) {
	db := tx.Session(&gorm.Session{NewDB: true})

	var vals []int64
	if err := db.Raw(
		`UPDATE `+SequenceTable+` SET last_value = last_value + 1, updated_at = NOW() WHERE prefix = ? RETURNING last_value`,
		s.Prefix,
	).Scan(&vals).Error; err != nil {
		return "", fmt.Errorf("advance sequence %s: %w", s.Prefix, err)
	}
	if len(vals) == 1 {
		return Format(s.Prefix, vals[0], s.Width), nil
	}

	// 第一次使用：从现有数据的最大序号开始
	start, err := maxSuffix(db, s)
	if err != nil {
		return "", err
	}
	vals = vals[:0]
	if err := db.Raw(
		`INSERT INTO `+SequenceTable+` (prefix, last_value, updated_at) VALUES (?, ?, NOW())
		 ON CONFLICT (prefix) DO UPDATE SET last_value = `+SequenceTable+`.last_value + 1, updated_at = NOW()
		 RETURNING last_value`,
		s.Prefix, start+1,
	).Scan(&vals).Error; err != nil {
		return "", fmt.Errorf("seed sequence %s: %w", s.Prefix, err)
	}
	if len(vals) != 1 {
		return "", fmt.Errorf("seed sequence %s: no value returned", s.Prefix)
	}
	return Format(s.Prefix, vals[0], s.Width), nil
}

func maxSuffix(db *gorm.DB, s Spec) (int64, error) {
	pattern := "^" + regexp.QuoteMeta(s.Prefix) + "[0-9]+$"
	var max int64
	q := fmt.Sprintf(
		`SELECT COALESCE(MAX(CAST(SUBSTRING(%[1]s FROM %[2]d) AS BIGINT)), 0) FROM %[3]s WHERE %[1]s ~ ?`,
		s.Column, len(s.Prefix)+1, s.Table,
	)
	if err := db.Raw(q, pattern).Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("scan max %s.%s: %w", s.Table, s.Column, err)
	}
	return max, nil
}
