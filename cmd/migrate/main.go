package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"teamdesk/internal/config"
	"teamdesk/internal/domain/user"
	"teamdesk/pkg/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const usage = `
TeamDesk - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up       Apply the schema
  status   Show database connection status
  seed     Seed the database with an active admin account

Flags:
  -admin-email string  Admin email for seeding (default "admin@teamdesk.local")
  -admin-pass string   Admin password for seeding (default "Admin@123!")
`

func main() {
	adminEmail := flag.String("admin-email", "admin@teamdesk.local", "Admin email for seeding")
	adminPass := flag.String("admin-pass", "Admin@123!", "Admin password for seeding")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	command := flag.Arg(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch command {
	case "up":
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Schema applied")
	case "status":
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get database handle: %v", err)
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		fmt.Println("Database reachable")
	case "seed":
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if err := seedAdmin(db, *adminEmail, *adminPass); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		fmt.Println("Admin account seeded")
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func seedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := user.User{
		ID:              uuid.New(),
		Email:           email,
		PasswordHash:    string(hash),
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}
	profile := user.Profile{
		ID:        uuid.New(),
		UserID:    admin.ID,
		Role:      user.RoleAdmin,
		Status:    user.StatusActive,
		FirstName: "Admin",
		LastName:  "User",
		CreatedAt: now,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&profile).Error
	})
}
