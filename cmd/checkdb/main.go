package main

import (
	"backend/internal/app/ds"
	"backend/internal/app/dsn"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Утилита для быстрой проверки содержимого БД
func main() {
	_ = godotenv.Load()

	db, err := gorm.Open(postgres.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var ads []ds.Ad
	err = db.Find(&ads).Error
	if err != nil {
		log.Fatal("Failed to get ads:", err)
	}

	fmt.Println("Ads in database:")
	for _, ad := range ads {
		contractor := "NULL"
		if ad.AssignedContractorID != nil {
			contractor = fmt.Sprintf("%d", *ad.AssignedContractorID)
		}
		fmt.Printf("ID: %d, Title: %s, Status: %s, Contractor: %s\n", ad.ID, ad.Title, ad.Status, contractor)
	}
}
