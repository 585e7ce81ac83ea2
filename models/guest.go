package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type LoyaltyTier string

const (
	LoyaltyBronze   LoyaltyTier = "BRONZE"
	LoyaltySilver   LoyaltyTier = "SILVER"
	LoyaltyGold     LoyaltyTier = "GOLD"
	LoyaltyPlatinum LoyaltyTier = "PLATINUM"
	LoyaltyDiamond  LoyaltyTier = "DIAMOND"
)

type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName     string `gorm:"size:100" json:"firstName" binding:"required"`
	LastName      string `gorm:"size:100" json:"lastName" binding:"required"`
	Email         string `gorm:"size:150;uniqueIndex" json:"email" binding:"required,email"`
	ContactNumber string `gorm:"size:17" json:"contactNumber"`
	Nationality   string `gorm:"size:100" json:"nationality"`
	Address       string `gorm:"type:text" json:"address"`

	IDProofType   string `gorm:"size:20" json:"idProofType"`
	IDProofNumber string `gorm:"size:50" json:"idProofNumber"`

	LoyaltyLevel LoyaltyTier `gorm:"size:10;default:BRONZE" json:"loyaltyLevel"`
	MemberID     *string     `gorm:"size:20" json:"memberId,omitempty"`
	Preferences  string      `gorm:"type:text" json:"preferences,omitempty"`
}

func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// DeriveMemberID returns the loyalty member id for non-bronze guests, e.g. GOL000042.
func (g Guest) DeriveMemberID() (string, bool) {
	if g.ID == 0 || g.LoyaltyLevel == "" || g.LoyaltyLevel == LoyaltyBronze {
		return "", false
	}
	tier := string(g.LoyaltyLevel)
	if len(tier) > 3 {
		tier = tier[:3]
	}
	return fmt.Sprintf("%s%06d", tier, g.ID), true
}

// AfterSave fills in the member id once the guest has a primary key.
func (g *Guest) AfterSave(tx *gorm.DB) error {
	if g.MemberID != nil && *g.MemberID != "" {
		return nil
	}
	id, ok := g.DeriveMemberID()
	if !ok {
		return nil
	}
	g.MemberID = &id
	return tx.Model(&Guest{}).Where("id = ?", g.ID).UpdateColumn("member_id", id).Error
}
