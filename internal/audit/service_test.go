package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/core/events"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	"github.com/frahmantamala/callcenter-admin/pkg/logger"
)

func TestAudit(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Module Suite")
}

// mockRepository records calls so tests can assert what reached the store.
type mockRepository struct {
	created       []Entry
	lastVis       Visibility
	lastLimit     int
	lastSkip      int
	lastUserID    int64
	returnError   bool
	errorToReturn error
}

func (m *mockRepository) Create(_ context.Context, entry *Entry) error {
	if m.returnError {
		return m.errorToReturn
	}
	entry.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *entry)
	return nil
}

func (m *mockRepository) Recent(_ context.Context, vis Visibility, limit int) ([]Entry, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.lastVis = vis
	m.lastLimit = limit
	return []Entry{}, nil
}

func (m *mockRepository) ForUser(_ context.Context, userID int64, skip, limit int) ([]Entry, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.lastUserID = userID
	m.lastSkip = skip
	m.lastLimit = limit
	return []Entry{}, nil
}

func (m *mockRepository) All(_ context.Context, skip, limit int) ([]Entry, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.lastSkip = skip
	m.lastLimit = limit
	return []Entry{}, nil
}

func (m *mockRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("Audit Service", func() {
	var (
		repo    *mockRepository
		service *Service
		ctx     context.Context
		admin   rbac.Identity
		agent   rbac.Identity
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{}
		bus := events.NewEventBus(logger.LoggerWrapper())
		service = NewService(repo, bus, internal.AuditConfig{DefaultLimit: 50, MaxLimit: 100}, logger.LoggerWrapper())
		ctx = context.Background()
		admin = rbac.Identity{UserID: 1, Role: rbac.RoleAdmin, Active: true}
		agent = rbac.Identity{UserID: 7, Role: rbac.RoleAgent, Active: true}
	})

	ginkgo.Describe("Record", func() {
		ginkgo.It("persists the entry and assigns an id", func() {
			entry, err := service.Record(ctx, RecordParams{
				ActorID: 1,
				Action:  ActionCreateUser,
				Target:  Target("user", 2),
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entry.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(entry.Timestamp).ToNot(gomega.BeZero())
			gomega.Expect(repo.created).To(gomega.HaveLen(1))
		})

		ginkgo.It("surfaces write failures as storage errors", func() {
			repo.setError(errors.New("disk full"))

			_, err := service.Record(ctx, RecordParams{ActorID: 1, Action: ActionCreateUser})
			gomega.Expect(err).To(gomega.HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeStorage))
		})
	})

	ginkgo.Describe("RecordNonCritical", func() {
		ginkgo.It("swallows write failures", func() {
			repo.setError(errors.New("disk full"))

			gomega.Expect(func() {
				service.RecordNonCritical(ctx, RecordParams{ActorID: 1, Action: ActionLogin})
			}).ToNot(gomega.Panic())
		})
	})

	ginkgo.Describe("ListRecent", func() {
		ginkgo.It("passes the requester's role and id as visibility", func() {
			_, err := service.ListRecent(ctx, agent, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastVis.Role).To(gomega.Equal(rbac.RoleAgent))
			gomega.Expect(repo.lastVis.UserID).To(gomega.Equal(int64(7)))
		})

		ginkgo.It("applies the default limit when none is given", func() {
			_, err := service.ListRecent(ctx, admin, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastLimit).To(gomega.Equal(50))
		})

		ginkgo.It("clamps oversized limits instead of rejecting them", func() {
			_, err := service.ListRecent(ctx, admin, 5000)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastLimit).To(gomega.Equal(100))
		})

		ginkgo.It("clamps negative limits to the default", func() {
			_, err := service.ListRecent(ctx, admin, -3)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastLimit).To(gomega.Equal(50))
		})
	})

	ginkgo.Describe("ListForUser", func() {
		ginkgo.It("lets admins read anyone's history", func() {
			_, err := service.ListForUser(ctx, admin, 42, 0, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastUserID).To(gomega.Equal(int64(42)))
		})

		ginkgo.It("redirects non-admins to their own history instead of denying", func() {
			_, err := service.ListForUser(ctx, agent, 42, 0, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastUserID).To(gomega.Equal(agent.UserID))
		})

		ginkgo.It("lets non-admins ask for themselves directly", func() {
			_, err := service.ListForUser(ctx, agent, agent.UserID, 0, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastUserID).To(gomega.Equal(agent.UserID))
		})

		ginkgo.It("normalizes a negative skip to zero", func() {
			_, err := service.ListForUser(ctx, admin, 1, -10, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.lastSkip).To(gomega.Equal(0))
		})
	})

	ginkgo.Describe("ListAll", func() {
		ginkgo.It("admits admins", func() {
			_, err := service.ListAll(ctx, admin, 0, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("rejects everyone else", func() {
			manager := rbac.Identity{UserID: 2, Role: rbac.RoleManager, Active: true}
			_, err := service.ListAll(ctx, manager, 0, 10)
			gomega.Expect(err).To(gomega.Equal(internal.ErrAdminRequired))

			_, err = service.ListAll(ctx, agent, 0, 10)
			gomega.Expect(err).To(gomega.Equal(internal.ErrAdminRequired))
		})
	})
})
