package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/callcenter-admin/internal/audit"
	auditPostgres "github.com/frahmantamala/callcenter-admin/internal/audit/postgres"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
)

func TestAuditPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteUser struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"column:email;uniqueIndex;not null"`
	FullName     string `gorm:"column:full_name;not null"`
	PasswordHash string `gorm:"column:password_hash"`
	Role         string `gorm:"column:role;not null"`
	Active       bool   `gorm:"column:active;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteAuditLog struct {
	ID           int64   `gorm:"primaryKey"`
	ActorID      int64   `gorm:"column:actor_id;not null"`
	Action       string  `gorm:"column:action;not null"`
	Target       *string `gorm:"column:target"`
	TargetUserID *int64  `gorm:"column:target_user_id"`
	Metadata     []byte  `gorm:"column:metadata"`
	Timestamp    time.Time
}

func (SQLiteAuditLog) TableName() string { return "audit_logs" }

var _ = Describe("Audit Repository", func() {
	var (
		db   *gorm.DB
		repo audit.Repository
		ctx  context.Context

		adminID   int64
		managerID int64
		agentID   int64
	)

	record := func(actorID int64, action string, targetUserID *int64, ts time.Time) *audit.Entry {
		entry := &audit.Entry{
			ActorID:      actorID,
			Action:       action,
			TargetUserID: targetUserID,
			Timestamp:    ts,
		}
		Expect(repo.Create(ctx, entry)).To(Succeed())
		return entry
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteAuditLog{})
		Expect(err).NotTo(HaveOccurred())

		users := []SQLiteUser{
			{Email: "admin@test.local", FullName: "Admin One", Role: "admin", Active: true},
			{Email: "manager@test.local", FullName: "Manager One", Role: "manager", Active: true},
			{Email: "agent@test.local", FullName: "Agent One", Role: "agent", Active: true},
		}
		for i := range users {
			Expect(db.Create(&users[i]).Error).To(Succeed())
		}
		adminID = users[0].ID
		managerID = users[1].ID
		agentID = users[2].ID

		repo = auditPostgres.NewAuditRepository(db)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("stores the entry and round-trips the metadata", func() {
			target := int64(99)
			entry := &audit.Entry{
				ActorID:      adminID,
				Action:       audit.ActionUpdatePageAccess,
				TargetUserID: &target,
				Metadata: map[string]interface{}{
					"page":            "calls",
					"access_granted":  true,
					"previous_access": false,
				},
				Timestamp: time.Now(),
			}
			Expect(repo.Create(ctx, entry)).To(Succeed())
			Expect(entry.ID).To(BeNumerically(">", 0))

			entries, err := repo.All(ctx, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Metadata["page"]).To(Equal("calls"))
			Expect(entries[0].Metadata["access_granted"]).To(Equal(true))
		})
	})

	Describe("Recent", func() {
		var base time.Time

		BeforeEach(func() {
			base = time.Now().Add(-time.Hour)
			record(adminID, audit.ActionCreateUser, &agentID, base.Add(1*time.Minute))
			record(managerID, audit.ActionCreateCandidate, nil, base.Add(2*time.Minute))
			record(agentID, audit.ActionCreateCall, nil, base.Add(3*time.Minute))
		})

		It("returns everything to an admin, newest first", func() {
			entries, err := repo.Recent(ctx, audit.Visibility{Role: rbac.RoleAdmin, UserID: adminID}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].Action).To(Equal(audit.ActionCreateCall))
			Expect(entries[2].Action).To(Equal(audit.ActionCreateUser))
		})

		It("hides admin-authored entries from managers", func() {
			entries, err := repo.Recent(ctx, audit.Visibility{Role: rbac.RoleManager, UserID: managerID}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			for _, e := range entries {
				Expect(e.ActorID).NotTo(Equal(adminID))
			}
		})

		It("drops deleted-actor entries from the manager view", func() {
			Expect(db.Delete(&SQLiteUser{}, agentID).Error).To(Succeed())

			entries, err := repo.Recent(ctx, audit.Visibility{Role: rbac.RoleManager, UserID: managerID}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActorID).To(Equal(managerID))
		})

		It("shows agents only their own actions", func() {
			entries, err := repo.Recent(ctx, audit.Visibility{Role: rbac.RoleAgent, UserID: agentID}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActorID).To(Equal(agentID))
		})

		It("shows viewers only their own actions too", func() {
			entries, err := repo.Recent(ctx, audit.Visibility{Role: rbac.RoleViewer, UserID: managerID}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActorID).To(Equal(managerID))
		})

		It("applies the limit after filtering", func() {
			entries, err := repo.Recent(ctx, audit.Visibility{Role: rbac.RoleAdmin, UserID: adminID}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Action).To(Equal(audit.ActionCreateCall))
		})
	})

	Describe("name enrichment", func() {
		It("resolves actor and target names by join", func() {
			record(adminID, audit.ActionCreateUser, &agentID, time.Now())

			entries, err := repo.All(ctx, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActorName).NotTo(BeNil())
			Expect(*entries[0].ActorName).To(Equal("Admin One"))
			Expect(entries[0].TargetUserName).NotTo(BeNil())
			Expect(*entries[0].TargetUserName).To(Equal("Agent One"))
		})

		It("leaves names nil after the user is deleted, keeping the entry", func() {
			record(agentID, audit.ActionCreateCall, nil, time.Now())
			Expect(db.Delete(&SQLiteUser{}, agentID).Error).To(Succeed())

			entries, err := repo.All(ctx, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActorID).To(Equal(agentID))
			Expect(entries[0].ActorName).To(BeNil())
		})
	})

	Describe("ForUser", func() {
		It("matches entries where the user is actor or target", func() {
			base := time.Now().Add(-time.Hour)
			record(adminID, audit.ActionUpdateUser, &agentID, base.Add(1*time.Minute))
			record(agentID, audit.ActionCreateCall, nil, base.Add(2*time.Minute))
			record(managerID, audit.ActionCreateCandidate, nil, base.Add(3*time.Minute))

			entries, err := repo.ForUser(ctx, agentID, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Action).To(Equal(audit.ActionCreateCall))
			Expect(entries[1].Action).To(Equal(audit.ActionUpdateUser))
		})

		It("honors skip and limit", func() {
			base := time.Now().Add(-time.Hour)
			for i := 0; i < 5; i++ {
				record(agentID, audit.ActionCreateCall, nil, base.Add(time.Duration(i)*time.Minute))
			}

			entries, err := repo.ForUser(ctx, agentID, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
		})
	})
})
