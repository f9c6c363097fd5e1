package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Lottery{},
		&Ticket{},
		&LedgerEntry{},
		&Auction{},
		&Bid{},
		&CategorySubscription{},
		&Notification{},
	)
}
