package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/pkg/logger"
)

func TestRBAC(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "RBAC Module Suite")
}

// mockOverrideStore keeps overrides in memory, keyed by user and page.
type mockOverrideStore struct {
	overrides     map[int64]map[Page]bool
	returnError   bool
	errorToReturn error
}

func newMockOverrideStore() *mockOverrideStore {
	return &mockOverrideStore{
		overrides: make(map[int64]map[Page]bool),
	}
}

func (m *mockOverrideStore) Get(_ context.Context, userID int64, page Page) (*Override, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if pages, ok := m.overrides[userID]; ok {
		if hasAccess, ok := pages[page]; ok {
			return &Override{UserID: userID, Page: page, HasAccess: hasAccess}, nil
		}
	}
	return nil, nil
}

func (m *mockOverrideStore) ListForUser(_ context.Context, userID int64) ([]Override, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	var result []Override
	for page, hasAccess := range m.overrides[userID] {
		result = append(result, Override{UserID: userID, Page: page, HasAccess: hasAccess})
	}
	return result, nil
}

func (m *mockOverrideStore) Set(_ context.Context, userID int64, page Page, hasAccess bool) (*Override, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if m.overrides[userID] == nil {
		m.overrides[userID] = make(map[Page]bool)
	}
	m.overrides[userID][page] = hasAccess
	return &Override{UserID: userID, Page: page, HasAccess: hasAccess}, nil
}

func (m *mockOverrideStore) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("DefaultPermissions", func() {
	ginkgo.It("covers every page for every known role", func() {
		for _, role := range AllRoles {
			perms := DefaultPermissions(role)
			gomega.Expect(perms).To(gomega.HaveLen(len(AllPages)))
			for _, page := range AllPages {
				gomega.Expect(perms).To(gomega.HaveKey(page))
			}
		}
	})

	ginkgo.It("grants admins every page", func() {
		for _, page := range AllPages {
			gomega.Expect(DefaultPermission(RoleAdmin, page)).To(gomega.BeTrue())
		}
	})

	ginkgo.It("denies managers only user management", func() {
		perms := DefaultPermissions(RoleManager)
		gomega.Expect(perms[PageUserManagement]).To(gomega.BeFalse())
		for _, page := range AllPages {
			if page != PageUserManagement {
				gomega.Expect(perms[page]).To(gomega.BeTrue(), "manager should reach %s", page)
			}
		}
	})

	ginkgo.It("denies agents the candidates page by default", func() {
		perms := DefaultPermissions(RoleAgent)
		gomega.Expect(perms[PageCandidates]).To(gomega.BeFalse())
		gomega.Expect(perms[PageCalls]).To(gomega.BeTrue())
		gomega.Expect(perms[PageInterviews]).To(gomega.BeTrue())
	})

	ginkgo.It("limits viewers to dashboard and settings", func() {
		perms := DefaultPermissions(RoleViewer)
		gomega.Expect(perms[PageDashboard]).To(gomega.BeTrue())
		gomega.Expect(perms[PageSettings]).To(gomega.BeTrue())
		gomega.Expect(perms[PageInterviews]).To(gomega.BeFalse())
		gomega.Expect(perms[PageCandidates]).To(gomega.BeFalse())
		gomega.Expect(perms[PageCalls]).To(gomega.BeFalse())
		gomega.Expect(perms[PageUserManagement]).To(gomega.BeFalse())
	})

	ginkgo.It("denies everything to an unknown role", func() {
		perms := DefaultPermissions(Role("superuser"))
		for _, page := range AllPages {
			gomega.Expect(perms[page]).To(gomega.BeFalse())
		}
	})
})

var _ = ginkgo.Describe("ParseRole and ParsePage", func() {
	ginkgo.It("accepts every known role and page", func() {
		for _, role := range AllRoles {
			parsed, err := ParseRole(string(role))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(parsed).To(gomega.Equal(role))
		}
		for _, page := range AllPages {
			parsed, err := ParsePage(string(page))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(parsed).To(gomega.Equal(page))
		}
	})

	ginkgo.It("rejects unknown values", func() {
		_, err := ParseRole("root")
		gomega.Expect(err).To(gomega.HaveOccurred())

		_, err = ParsePage("secrets")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})

var _ = ginkgo.Describe("Resolver", func() {
	var (
		store    *mockOverrideStore
		resolver *Resolver
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		store = newMockOverrideStore()
		resolver = NewResolver(store, logger.LoggerWrapper())
		ctx = context.Background()
	})

	ginkgo.It("returns pure role defaults when no overrides exist", func() {
		perms, err := resolver.Resolve(ctx, Identity{UserID: 1, Role: RoleAgent, Active: true})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(perms).To(gomega.Equal(DefaultPermissions(RoleAgent)))
	})

	ginkgo.It("lets a grant override a role denial", func() {
		_, err := store.Set(ctx, 1, PageCandidates, true)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		perms, err := resolver.Resolve(ctx, Identity{UserID: 1, Role: RoleAgent, Active: true})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(perms[PageCandidates]).To(gomega.BeTrue())
	})

	ginkgo.It("lets a revocation override a role grant", func() {
		_, err := store.Set(ctx, 1, PageCalls, false)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		perms, err := resolver.Resolve(ctx, Identity{UserID: 1, Role: RoleAgent, Active: true})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(perms[PageCalls]).To(gomega.BeFalse())
	})

	ginkgo.It("only affects the user holding the override", func() {
		_, err := store.Set(ctx, 1, PageCandidates, true)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		perms, err := resolver.Resolve(ctx, Identity{UserID: 2, Role: RoleAgent, Active: true})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(perms[PageCandidates]).To(gomega.BeFalse())
	})

	ginkgo.It("propagates store failures", func() {
		store.setError(errors.New("connection refused"))

		_, err := resolver.Resolve(ctx, Identity{UserID: 1, Role: RoleAdmin, Active: true})
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})

var _ = ginkgo.Describe("Gate", func() {
	var (
		store *mockOverrideStore
		gate  *Gate
		ctx   context.Context
	)

	ginkgo.BeforeEach(func() {
		store = newMockOverrideStore()
		gate = NewGate(NewResolver(store, logger.LoggerWrapper()), logger.LoggerWrapper())
		ctx = context.Background()
	})

	ginkgo.Describe("Authorize", func() {
		ginkgo.It("allows a page granted by role default", func() {
			err := gate.Authorize(ctx, Identity{UserID: 1, Role: RoleAgent, Active: true}, PageCalls)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("denies a page the role lacks", func() {
			err := gate.Authorize(ctx, Identity{UserID: 1, Role: RoleViewer, Active: true}, PageCalls)
			gomega.Expect(err).To(gomega.HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeAccessDenied))
			gomega.Expect(appErr.Message).To(gomega.ContainSubstring("calls"))
		})

		ginkgo.It("rejects inactive users before touching the store", func() {
			store.setError(errors.New("store should not be consulted"))

			err := gate.Authorize(ctx, Identity{UserID: 1, Role: RoleAdmin, Active: false}, PageDashboard)
			gomega.Expect(err).To(gomega.Equal(internal.ErrUserInactive))
		})

		ginkgo.It("fails closed when resolution errors", func() {
			store.setError(errors.New("connection refused"))

			err := gate.Authorize(ctx, Identity{UserID: 1, Role: RoleAdmin, Active: true}, PageDashboard)
			gomega.Expect(err).To(gomega.HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeAccessDenied))
		})
	})

	ginkgo.Describe("role gates", func() {
		ginkgo.It("admits only admins to RequireAdmin", func() {
			gomega.Expect(gate.RequireAdmin(Identity{UserID: 1, Role: RoleAdmin, Active: true})).To(gomega.Succeed())
			gomega.Expect(gate.RequireAdmin(Identity{UserID: 2, Role: RoleManager, Active: true})).To(gomega.Equal(internal.ErrAdminRequired))
		})

		ginkgo.It("admits admins and managers to RequireAdminOrManager", func() {
			gomega.Expect(gate.RequireAdminOrManager(Identity{UserID: 1, Role: RoleAdmin, Active: true})).To(gomega.Succeed())
			gomega.Expect(gate.RequireAdminOrManager(Identity{UserID: 2, Role: RoleManager, Active: true})).To(gomega.Succeed())
			gomega.Expect(gate.RequireAdminOrManager(Identity{UserID: 3, Role: RoleAgent, Active: true})).To(gomega.Equal(internal.ErrManagerRequired))
		})

		ginkgo.It("rejects inactive identities regardless of role", func() {
			gomega.Expect(gate.RequireAdmin(Identity{UserID: 1, Role: RoleAdmin, Active: false})).To(gomega.Equal(internal.ErrUserInactive))
		})

		ginkgo.It("ignores a user_management page override for role gates", func() {
			// an override can open the user_management page in navigation,
			// but it never grants the admin-only operations behind it
			_, err := store.Set(ctx, 5, PageUserManagement, true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			id := Identity{UserID: 5, Role: RoleAgent, Active: true}
			gomega.Expect(gate.RequireAdmin(id)).To(gomega.Equal(internal.ErrAdminRequired))
			gomega.Expect(gate.RequireAdminOrManager(id)).To(gomega.Equal(internal.ErrManagerRequired))

			// the page check itself does honor the override
			gomega.Expect(gate.Authorize(ctx, id, PageUserManagement)).To(gomega.Succeed())
		})
	})
})
