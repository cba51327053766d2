package migration

import (
	entities2 "TransitGuard/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities2.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.TransportSession{}); err != nil {
		log.Fatalf("Error migrating transport session database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.RegisteredSeal{}, &entities2.ScannedSeal{}); err != nil {
		log.Fatalf("Error migrating seal databases: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.SealStatusRecord{}, &entities2.FieldVerification{}); err != nil {
		log.Fatalf("Error migrating verification databases: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.VerificationRecord{}); err != nil {
		log.Fatalf("Error migrating verification record database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.ActivityLog{}); err != nil {
		log.Fatalf("Error migrating activity log database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.CoinPackage{}, &entities2.CoinTransaction{}); err != nil {
		log.Fatalf("Error migrating coin databases: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
