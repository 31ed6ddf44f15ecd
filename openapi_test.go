package main_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/getkin/kin-openapi/openapi3"
)

var _ = Describe("OpenAPI document", func() {
	It("is a valid OpenAPI 3 spec", func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Validate(loader.Context)).To(Succeed())
	})

	It("documents the access-control surface", func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{
			"/auth/login",
			"/users/{userID}/page-access",
			"/audit/recent",
			"/audit/users/{userID}",
			"/audit/all",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})
})
