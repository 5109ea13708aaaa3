// database/seeder.go
package database

import (
	"errors"
	"log"

	"procurement-app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedUsers(db)
	SeedCategories(db)
}

func SeedUsers(db *gorm.DB) {
	users := []models.User{
		{
			Username:   "admin",
			Password:   "admin123",
			Name:       "Admin",
			Email:      "admin@example.com",
			Role:       models.RoleAdmin,
			Department: "IT",
		},
		{
			Username:   "officer",
			Password:   "officer123",
			Name:       "Procurement Officer",
			Email:      "officer@example.com",
			Role:       models.RoleProcurementOfficer,
			Department: "Procurement",
		},
	}

	for _, user := range users {
		var existing models.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hashed, hashErr := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
			if hashErr != nil {
				log.Println("Failed to hash password for user:", user.Username, hashErr)
				continue
			}
			user.Password = string(hashed)
			if err := db.Create(&user).Error; err != nil {
				log.Println("Failed to insert user:", user.Username, err)
			} else {
				log.Println("Insert user:", user.Username)
			}
		}
	}
}

func SeedCategories(db *gorm.DB) {
	categories := []models.Category{
		{Name: "Office Supplies", Description: "General office consumables"},
		{Name: "IT Equipment", Description: "Computers, peripherals and networking"},
		{Name: "Furniture", Description: "Desks, chairs and storage"},
		{Name: "Maintenance", Description: "Facility maintenance materials"},
	}

	for _, category := range categories {
		var existing models.Category
		err := db.Where("name = ?", category.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&category).Error; err != nil {
				log.Println("Failed to insert category:", category.Name, err)
			}
		}
	}
}
