package handler_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"symposia/internal/certificate"
	certhandler "symposia/internal/certificate/handler"
	"symposia/internal/roster"
	id "symposia/pkg/domain"
)

type RenderHandlerSuite struct {
	suite.Suite

	router *chi.Mux

	eventID        id.EventID
	registrationID id.RegistrationID
	templateID     id.TemplateID
}

func TestRenderHandlerSuite(t *testing.T) {
	suite.Run(t, new(RenderHandlerSuite))
}

func (s *RenderHandlerSuite) SetupTest() {
	s.eventID = id.EventID(uuid.New())
	s.registrationID = id.RegistrationID(uuid.New())
	s.templateID = id.TemplateID(uuid.New())

	rosterStore := roster.NewMemoryStore()
	rosterStore.PutRegistration(&roster.Registration{
		ID:      s.registrationID,
		EventID: s.eventID,
		PersonalInfo: roster.PersonalInfo{
			FirstName: "Mete",
			LastName:  "Aydin",
		},
	})
	rosterStore.PutEvent(&roster.Event{
		ID:        s.eventID,
		Name:      "Coastal Engineering Days",
		StartDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	})

	templates := certificate.NewMemoryStore()
	templates.Put(&certificate.Template{
		ID:      s.templateID,
		EventID: s.eventID,
		Name:    "Attendance",
		Unit:    certificate.UnitPoint,
		Fields: []certificate.Field{
			{Source: certificate.ParseSource("Registration.personalInfo.fullName"), X: 420, Y: 250, Size: 22, Align: certificate.AlignCenter},
		},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := certificate.NewEngine(
		templates,
		rosterStore,
		certificate.NewRenderer(s.T().TempDir()),
		nil,
		logger,
		nil,
	)

	s.router = chi.NewRouter()
	certhandler.New(engine, logger).Register(s.router)
}

func (s *RenderHandlerSuite) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *RenderHandlerSuite) renderPath() string {
	return fmt.Sprintf("/events/%s/certificates/%s/render", s.eventID, s.templateID)
}

func (s *RenderHandlerSuite) TestRenderEndpoint() {
	s.Run("streams a PDF", func() {
		rec := s.get(s.renderPath() + "?registration=" + s.registrationID.String())
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("application/pdf", rec.Header().Get("Content-Type"))
		s.True(len(rec.Body.Bytes()) > 4)
		s.Equal("%PDF", rec.Body.String()[:4])
	})

	s.Run("background flag is honored", func() {
		rec := s.get(s.renderPath() + "?registration=" + s.registrationID.String() + "&background=false")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("missing registration parameter", func() {
		rec := s.get(s.renderPath())
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown registration", func() {
		rec := s.get(s.renderPath() + "?registration=" + uuid.NewString())
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("unknown template", func() {
		path := fmt.Sprintf("/events/%s/certificates/%s/render?registration=%s", s.eventID, uuid.NewString(), s.registrationID)
		rec := s.get(path)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("invalid ids", func() {
		rec := s.get(fmt.Sprintf("/events/bogus/certificates/%s/render?registration=%s", s.templateID, s.registrationID))
		s.Equal(http.StatusBadRequest, rec.Code)

		rec = s.get(s.renderPath() + "?registration=" + s.registrationID.String() + "&abstract=bogus")
		s.Equal(http.StatusBadRequest, rec.Code)

		rec = s.get(s.renderPath() + "?registration=" + s.registrationID.String() + "&background=perhaps")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
