package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one user per role and sample tracking data for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"audit_logs", "page_access_overrides", "calls", "interviews", "candidates", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"admin@callcenter.local", "Ava Admin", "admin"},
			{"manager@callcenter.local", "Morgan Manager", "manager"},
			{"agent@callcenter.local", "Alex Agent", "agent"},
			{"viewer@callcenter.local", "Vic Viewer", "viewer"},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Println("user already exists, skipping:", u.Email)
				continue
			}

			err := db.Exec(
				"INSERT INTO users (email, full_name, password_hash, role, active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email, "role:", u.Role)
		}

		// sample override: the viewer gets the calls page on top of role defaults
		var viewerID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "viewer@callcenter.local").Row().Scan(&viewerID); err == nil {
			err := db.Exec(
				`INSERT INTO page_access_overrides (user_id, page_name, has_access, created_at, updated_at)
				 VALUES (?, 'calls', true, now(), now())
				 ON CONFLICT (user_id, page_name) DO NOTHING`,
				viewerID,
			).Error
			if err != nil {
				log.Fatalf("failed to insert page override: %v", err)
			}
			fmt.Println("Granted calls page to viewer via override")
		}

		var count int64
		db.Raw("SELECT COUNT(*) FROM candidates").Row().Scan(&count)
		if count == 0 {
			err := db.Exec(
				`INSERT INTO candidates (full_name, email, phone, position, status, notes, created_at, updated_at) VALUES
				 ('Jordan Reyes', 'jordan.reyes@example.com', '+1-555-0101', 'Support Agent', 'screening', '', now(), now()),
				 ('Sam Okafor', 'sam.okafor@example.com', '+1-555-0102', 'Team Lead', 'interview', 'strong phone screen', now(), now()),
				 ('Dana Lindqvist', 'dana.lindqvist@example.com', '+1-555-0103', 'Support Agent', 'new', '', now(), now())`,
			).Error
			if err != nil {
				log.Fatalf("failed to insert candidates: %v", err)
			}
			fmt.Println("Seeded sample candidates")
		}

		fmt.Println("Seeding complete. All seeded users log in with password:", password)
	},
}
