package model

import "github.com/shopspring/decimal"

// 商品（カタログは読み取り専用）
type Product struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string          `gorm:"type:varchar(255);not null" json:"name"`
	Description         string          `gorm:"type:text" json:"description"`
	ExtendedDescription string          `gorm:"type:text" json:"extendedDescription"`
	Price               decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Rating              float64         `gorm:"not null;default:0" json:"rating"`
	Images              []string        `gorm:"type:jsonb;serializer:json;not null" json:"images"`
}

func (p *Product) TableName() string {
	return "products"
}
