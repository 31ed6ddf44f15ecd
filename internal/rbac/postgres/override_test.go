package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	accessDatamodel "github.com/frahmantamala/callcenter-admin/internal/core/datamodel/access"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	rbacPostgres "github.com/frahmantamala/callcenter-admin/internal/rbac/postgres"
)

func TestOverridePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RBAC Postgres Suite")
}

var _ = Describe("Override Store", func() {
	var (
		db    *gorm.DB
		store *rbacPostgres.OverrideStore
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		// every :memory: connection is its own database, so the pool must
		// stay on a single connection
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		err = db.AutoMigrate(&accessDatamodel.PageAccessOverride{})
		Expect(err).NotTo(HaveOccurred())

		store = rbacPostgres.NewOverrideStore(db)
		ctx = context.Background()
	})

	Describe("Get", func() {
		It("returns nil without error when no override exists", func() {
			override, err := store.Get(ctx, 1, rbac.PageCalls)
			Expect(err).NotTo(HaveOccurred())
			Expect(override).To(BeNil())
		})

		It("returns the stored override", func() {
			_, err := store.Set(ctx, 1, rbac.PageCalls, false)
			Expect(err).NotTo(HaveOccurred())

			override, err := store.Get(ctx, 1, rbac.PageCalls)
			Expect(err).NotTo(HaveOccurred())
			Expect(override).NotTo(BeNil())
			Expect(override.UserID).To(Equal(int64(1)))
			Expect(override.Page).To(Equal(rbac.PageCalls))
			Expect(override.HasAccess).To(BeFalse())
		})
	})

	Describe("Set", func() {
		It("creates a new override row", func() {
			override, err := store.Set(ctx, 1, rbac.PageCandidates, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(override.HasAccess).To(BeTrue())

			var count int64
			db.Model(&accessDatamodel.PageAccessOverride{}).Count(&count)
			Expect(count).To(Equal(int64(1)))
		})

		It("leaves a single row after repeated writes for the same key", func() {
			_, err := store.Set(ctx, 1, rbac.PageCandidates, true)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Set(ctx, 1, rbac.PageCandidates, false)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Set(ctx, 1, rbac.PageCandidates, true)
			Expect(err).NotTo(HaveOccurred())

			var count int64
			db.Model(&accessDatamodel.PageAccessOverride{}).
				Where("user_id = ? AND page_name = ?", 1, "candidates").
				Count(&count)
			Expect(count).To(Equal(int64(1)))

			override, err := store.Get(ctx, 1, rbac.PageCandidates)
			Expect(err).NotTo(HaveOccurred())
			Expect(override.HasAccess).To(BeTrue())
		})

		It("leaves a single row when writers race on the same key", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				hasAccess := i%2 == 0
				wg.Add(1)
				go func(v bool) {
					defer wg.Done()
					defer GinkgoRecover()
					_, err := store.Set(ctx, 1, rbac.PageCandidates, v)
					Expect(err).NotTo(HaveOccurred())
				}(hasAccess)
			}
			wg.Wait()

			var count int64
			db.Model(&accessDatamodel.PageAccessOverride{}).
				Where("user_id = ? AND page_name = ?", 1, "candidates").
				Count(&count)
			Expect(count).To(Equal(int64(1)))
		})

		It("keeps overrides for different pages separate", func() {
			_, err := store.Set(ctx, 1, rbac.PageCandidates, true)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Set(ctx, 1, rbac.PageCalls, false)
			Expect(err).NotTo(HaveOccurred())

			overrides, err := store.ListForUser(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(overrides).To(HaveLen(2))
		})

		It("bumps updated_at on rewrite", func() {
			first, err := store.Set(ctx, 1, rbac.PageSettings, true)
			Expect(err).NotTo(HaveOccurred())

			time.Sleep(5 * time.Millisecond)

			second, err := store.Set(ctx, 1, rbac.PageSettings, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.UpdatedAt).To(BeTemporally(">", first.CreatedAt))
		})
	})

	Describe("ListForUser", func() {
		It("returns only the given user's overrides", func() {
			_, err := store.Set(ctx, 1, rbac.PageCalls, true)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Set(ctx, 2, rbac.PageCalls, false)
			Expect(err).NotTo(HaveOccurred())

			overrides, err := store.ListForUser(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(overrides).To(HaveLen(1))
			Expect(overrides[0].UserID).To(Equal(int64(1)))
		})

		It("returns an empty slice for a user without overrides", func() {
			overrides, err := store.ListForUser(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(overrides).To(BeEmpty())
		})
	})

	Describe("DeleteForUser", func() {
		It("removes every override owned by the user", func() {
			_, err := store.Set(ctx, 1, rbac.PageCalls, true)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Set(ctx, 1, rbac.PageCandidates, true)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Set(ctx, 2, rbac.PageCalls, true)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.DeleteForUser(ctx, 1)).To(Succeed())

			overrides, err := store.ListForUser(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(overrides).To(BeEmpty())

			others, err := store.ListForUser(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(others).To(HaveLen(1))
		})
	})
})
