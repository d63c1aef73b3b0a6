//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"coupon-engine/internal/handler/api"
	resdto "coupon-engine/internal/handler/dto/response"
	"coupon-engine/internal/handler/middleware"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/tests/common/builder"
	"coupon-engine/tests/common/httptest"
	"coupon-engine/tests/common/testutil"
	commandsmock "coupon-engine/tests/mock/commands"
	queriesmock "coupon-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CouponHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCouponCommands
	mockQueries  *queriesmock.MockCouponQueries
	handler      *api.CouponHandler
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCouponQueries(s.mockCtrl)
	s.handler = api.NewCouponHandler(s.mockCommands, s.mockQueries)

	// Same shape as the production router: reads are public, writes require
	// the store principal header.
	s.router.GET("/coupons", s.handler.ListByStore)
	s.router.GET("/coupons/issuable", s.handler.ListIssuable)
	s.router.GET("/coupons/:id", s.handler.Get)
	s.router.POST("/coupons", middleware.RequireStore(), s.handler.Define)
	s.router.PUT("/coupons/:id", middleware.RequireStore(), s.handler.Update)
	s.router.PATCH("/coupons/:id/status", middleware.RequireStore(), s.handler.SetStatus)
	s.router.DELETE("/coupons/:id", middleware.RequireStore(), s.handler.Delete)
}

func (s *CouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

func storeHeaders(storeID uuid.UUID) map[string]string {
	return map[string]string{"X-Store-ID": storeID.String()}
}

var handlerNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// ================================================================================
// TestDefine
// ================================================================================

func (s *CouponHandlerTestSuite) TestDefine() {
	url := "/coupons"

	b := builder.NewCouponBuilder()
	reqBody := b.BuildDefineRequestDTO()
	returnView := b.BuildViewQuery(handlerNow)

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Define(gomock.Any(), b.StoreID(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, storeHeaders(b.StoreID()))

		var body resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(returnView.ID, body.ID)
		s.Equal(returnView.Code, body.Code)
		s.Equal(returnView.Remaining, body.Remaining)
	})

	s.Run("error: 401 without store header", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		invalid := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: code", mutate: testutil.Field("code", nil)},
			{name: "missing field: name", mutate: testutil.Field("name", nil)},
			{name: "missing field: total_quantity", mutate: testutil.Field("total_quantity", nil)},
			{name: "unknown discount kind", mutate: testutil.Field("discount_kind", "points")},
			{name: "unknown expiry kind", mutate: testutil.Field("expiry_kind", "sliding")},
		}
		for _, tc := range invalid {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, storeHeaders(b.StoreID()))
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: command failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "duplicate code", err: commands.ErrDuplicateCode, expectCode: http.StatusConflict},
			{name: "invalid expiry policy", err: commands.ErrInvalidExpiryPolicy, expectCode: http.StatusUnprocessableEntity},
			{name: "domain validation", err: commands.ErrDomainValidation, expectCode: http.StatusUnprocessableEntity},
			{name: "unexpected failure", err: errors.New("boom"), expectCode: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Define(gomock.Any(), b.StoreID(), gomock.Any()).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, storeHeaders(b.StoreID()))
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})
}

// ================================================================================
// TestUpdate
// ================================================================================

func (s *CouponHandlerTestSuite) TestUpdate() {
	b := builder.NewCouponBuilder()
	returnView := b.BuildViewQuery(handlerNow)
	url := "/coupons/" + returnView.ID.String()
	reqBody := b.BuildUpdateRequestDTO(1)

	s.Run("success: returns 200 OK with the updated view", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), b.StoreID(), returnView.ID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, storeHeaders(b.StoreID()))

		var body resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(returnView.ID, body.ID)
	})

	s.Run("error: 400 for malformed coupon id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/coupons/not-a-uuid", reqBody, storeHeaders(b.StoreID()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 when version is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("version", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, requestMap, storeHeaders(b.StoreID()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: command failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "not found", err: commands.ErrCouponNotFound, expectCode: http.StatusNotFound},
			{name: "another store's coupon reads as absent", err: commands.ErrStoreMismatch, expectCode: http.StatusNotFound},
			{name: "stale version", err: commands.ErrEditConflict, expectCode: http.StatusConflict},
			{name: "invalid expiry policy", err: commands.ErrInvalidExpiryPolicy, expectCode: http.StatusUnprocessableEntity},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Update(gomock.Any(), b.StoreID(), returnView.ID, gomock.Any()).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, storeHeaders(b.StoreID()))
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})
}

// ================================================================================
// TestSetStatus
// ================================================================================

func (s *CouponHandlerTestSuite) TestSetStatus() {
	b := builder.NewCouponBuilder()
	couponID := uuid.New()
	url := "/coupons/" + couponID.String() + "/status"
	reqBody := map[string]any{"status": "inactive", "version": 1}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().SetStatus(gomock.Any(), b.StoreID(), couponID, "inactive", int64(1)).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, storeHeaders(b.StoreID()))
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 for unknown status value", func() {
		requestMap := map[string]any{"status": "paused", "version": 1}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, requestMap, storeHeaders(b.StoreID()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 409 on stale version", func() {
		s.mockCommands.EXPECT().SetStatus(gomock.Any(), b.StoreID(), couponID, "inactive", int64(1)).
			Return(commands.ErrEditConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, storeHeaders(b.StoreID()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

// ================================================================================
// TestDelete
// ================================================================================

func (s *CouponHandlerTestSuite) TestDelete() {
	b := builder.NewCouponBuilder()
	couponID := uuid.New()
	url := "/coupons/" + couponID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), b.StoreID(), couponID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, storeHeaders(b.StoreID()))
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 409 while issued copies exist", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), b.StoreID(), couponID).
			Return(commands.ErrHasIssuedCopies).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, storeHeaders(b.StoreID()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "issued copies")
	})

	s.Run("error: 404 for unknown coupon", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), b.StoreID(), couponID).
			Return(commands.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, storeHeaders(b.StoreID()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}

// ================================================================================
// TestGet / listings
// ================================================================================

func (s *CouponHandlerTestSuite) TestGet() {
	b := builder.NewCouponBuilder()
	returnView := b.BuildViewQuery(handlerNow)

	s.Run("success: returns the coupon", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons/"+returnView.ID.String(), nil, nil)

		var body resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(returnView.Code, body.Code)
	})

	s.Run("error: 400 for malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons/not-a-uuid", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

func (s *CouponHandlerTestSuite) TestListByStore() {
	b := builder.NewCouponBuilder()
	views := []*queries.CouponView{b.BuildViewQuery(handlerNow)}

	s.Run("success: lists coupons for a store", func() {
		s.mockQueries.EXPECT().ListByStore(gomock.Any(), b.StoreID()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons?store_id="+b.StoreID().String(), nil, nil)

		var body []resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("error: 400 without store_id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

func (s *CouponHandlerTestSuite) TestListIssuable() {
	b := builder.NewCouponBuilder()
	views := []*queries.CouponView{b.BuildViewQuery(handlerNow)}

	s.Run("success: all stores", func() {
		s.mockQueries.EXPECT().ListAllIssuable(gomock.Any()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons/issuable", nil, nil)

		var body []resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("success: scoped to one store", func() {
		s.mockQueries.EXPECT().ListIssuableForStore(gomock.Any(), b.StoreID()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons/issuable?store_id="+b.StoreID().String(), nil, nil)

		var body []resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("error: 400 for malformed store_id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons/issuable?store_id=nope", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}
