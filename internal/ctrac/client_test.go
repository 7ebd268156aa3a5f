package ctrac_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/c-trac/torquebench/internal/common"
	"github.com/c-trac/torquebench/internal/ctrac"
)

var _ = Describe("Client", func() {
	var (
		ctx     context.Context
		server  *httptest.Server
		handler http.HandlerFunc
		client  *ctrac.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}
	})

	JustBeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		client = ctrac.NewClient(ctrac.Config{
			BaseURL:  server.URL,
			APIToken: "secret-token",
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("GetLineItem", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/line-items/42"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer secret-token"))
				Expect(r.Header.Get("Accept")).To(Equal("application/json"))
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"data":{"company_asset":{
					"unit_number":"U-7","make":"Snap-on","model":"TQ-150",
					"serial_number":"SN-9","company_id":3,
					"additional_info_fields":{"max_torque":150,"torque_unit":"ft-lb"}
				}}}`)
			}
		})

		It("decodes the enveloped payload", func() {
			item, err := client.GetLineItem(ctx, "42")
			Expect(err).ToNot(HaveOccurred())
			Expect(item.CompanyAsset.Make).To(Equal("Snap-on"))
			Expect(item.CompanyAsset.CompanyID.String()).To(Equal("3"))
		})

		When("the envelope has no data", func() {
			BeforeEach(func() {
				handler = func(w http.ResponseWriter, r *http.Request) {
					io.WriteString(w, `{}`)
				}
			})

			It("returns an error", func() {
				_, err := client.GetLineItem(ctx, "42")
				Expect(err).To(MatchError(ContainSubstring("empty data")))
			})
		})

		When("the API rejects the request", func() {
			BeforeEach(func() {
				handler = func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusUnauthorized)
					io.WriteString(w, `{"message":"Unauthenticated."}`)
				}
			})

			It("surfaces the status and body", func() {
				_, err := client.GetLineItem(ctx, "42")
				Expect(err).To(MatchError(ContainSubstring("status 401")))
				Expect(err).To(MatchError(ContainSubstring("Unauthenticated")))
				Expect(errors.Is(err, common.ErrTransport)).To(BeTrue())
			})
		})

		When("the line item does not exist", func() {
			BeforeEach(func() {
				handler = func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNotFound)
				}
			})

			It("maps 404 to the not-found sentinel", func() {
				_, err := client.GetLineItem(ctx, "42")
				Expect(errors.Is(err, common.ErrNotFound)).To(BeTrue())
			})
		})
	})

	Describe("GetCompany", func() {
		When("the payload is enveloped", func() {
			BeforeEach(func() {
				handler = func(w http.ResponseWriter, r *http.Request) {
					Expect(r.URL.Path).To(Equal("/api/companies/3"))
					io.WriteString(w, `{"data":{"name":"Acme Drilling","phone":"555-0100"}}`)
				}
			})

			It("decodes the inner object", func() {
				company, err := client.GetCompany(ctx, "3")
				Expect(err).ToNot(HaveOccurred())
				Expect(company.Name).To(Equal("Acme Drilling"))
				Expect(company.Phone).To(Equal("555-0100"))
			})
		})

		When("the payload is bare", func() {
			BeforeEach(func() {
				handler = func(w http.ResponseWriter, r *http.Request) {
					io.WriteString(w, `{"name":"Acme Drilling","phone":"555-0100"}`)
				}
			})

			It("still decodes the company", func() {
				company, err := client.GetCompany(ctx, "3")
				Expect(err).ToNot(HaveOccurred())
				Expect(company.Name).To(Equal("Acme Drilling"))
			})
		})
	})
})

var _ = Describe("ApplyLineItem", func() {
	item := &ctrac.LineItem{
		CompanyAsset: ctrac.CompanyAsset{
			UnitNumber:   "U-7",
			Make:         "Snap-on",
			Model:        "TQ-150",
			SerialNumber: "SN-9",
			Extra: map[string]any{
				"max_torque":  150.0,
				"torque_unit": " ft-lb ",
			},
		},
	}

	It("projects the asset onto label fields", func() {
		fields := ctrac.ApplyLineItem(item, &ctrac.Company{Name: "Acme Drilling", Phone: "555-0100"})
		Expect(fields.Manufacturer).To(Equal("Snap-on"))
		Expect(fields.Model).To(Equal("TQ-150"))
		Expect(fields.Unit).To(Equal("U-7"))
		Expect(fields.Serial).To(Equal("SN-9"))
		Expect(fields.Customer).To(Equal("Acme Drilling"))
		Expect(fields.Phone).To(Equal("555-0100"))
		Expect(fields.MaxTorque).To(Equal("150"))
		Expect(fields.TorqueUnit).To(Equal("ft-lb"))
	})

	It("leaves customer fields blank without a company", func() {
		fields := ctrac.ApplyLineItem(item, nil)
		Expect(fields.Customer).To(BeEmpty())
		Expect(fields.Phone).To(BeEmpty())
	})

	It("tolerates missing additional info", func() {
		bare := &ctrac.LineItem{CompanyAsset: ctrac.CompanyAsset{Make: "CDI"}}
		fields := ctrac.ApplyLineItem(bare, nil)
		Expect(fields.MaxTorque).To(BeEmpty())
		Expect(fields.TorqueUnit).To(BeEmpty())
	})
})
