package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/blob"
)

type ResidentServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	blobs   *blob.MemoryStore
	service *ResidentService
	ctx     context.Context
	actor   Actor
}

func (s *ResidentServiceSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.blobs = blob.NewMemoryStore("http://blobs.local/ids")
	cfg := testConfig()
	s.service = NewResidentService(s.db, cfg, s.blobs, testMetrics()).(*ResidentService)
	s.service.now = func() time.Time { return testNow }
	s.ctx = context.Background()
	s.actor = Actor{UserID: 1}
}

func (s *ResidentServiceSuite) household(number string) models.Household {
	var h models.Household
	s.Require().NoError(s.db.Where("household_number = ?", number).First(&h).Error)
	return h
}

func (s *ResidentServiceSuite) TestCreateValidates() {
	r := validResident("", "Cruz")
	r.Sex = "X"
	r.Birthday = testNow.AddDate(0, 0, 2)

	err := s.service.CreateResident(s.ctx, s.actor, r)

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "first_name")
	s.Contains(verr.Fields, "sex")
	s.Contains(verr.Fields, "birthday")
}

func (s *ResidentServiceSuite) TestFamilyHeadWithoutHouseholdOpensOne() {
	s.Require().NoError(s.db.Create(&models.Household{HouseholdNumber: "HH-004", HouseholdName: "Reyes", Purok: "Purok 1"}).Error)

	head := validResident("Juan", "Dela Cruz")
	head.Sex = models.SexMale
	head.IsFamilyHead = true
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, head))

	s.Equal("HH-005", head.HouseholdNumber)
	h := s.household("HH-005")
	s.Equal("Dela Cruz", h.HouseholdName)
	s.Equal("Purok 2", h.Purok)
	s.Equal(1, h.MembersCount)
}

func (s *ResidentServiceSuite) TestSecondFamilyHeadConflicts() {
	head := validResident("Juan", "Dela Cruz")
	head.IsFamilyHead = true
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, head))

	other := validResident("Pedro", "Dela Cruz")
	other.IsFamilyHead = true
	other.HouseholdNumber = head.HouseholdNumber
	err := s.service.CreateResident(s.ctx, s.actor, other)
	s.ErrorIs(err, ErrRoleTaken)
	s.ErrorIs(err, ErrConflict)

	wife := validResident("Maria", "Dela Cruz")
	wife.IsWife = true
	wife.HouseholdNumber = head.HouseholdNumber
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, wife))

	second := validResident("Ana", "Dela Cruz")
	second.IsWife = true
	second.HouseholdNumber = head.HouseholdNumber
	s.ErrorIs(s.service.CreateResident(s.ctx, s.actor, second), ErrRoleTaken)

	s.Equal(2, s.household(head.HouseholdNumber).MembersCount)
}

func (s *ResidentServiceSuite) TestVoterFlagIsDerived() {
	declared := validResident("Lito", "Lapid")
	declared.VoterDeclared = true
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, declared))
	s.True(declared.IsRegisteredVoter)

	plain := validResident("Nora", "Aunor")
	plain.IsRegisteredVoter = true // client-sent derived flag is ignored
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, plain))
	s.False(plain.IsRegisteredVoter)

	voter := true
	voters, total, err := s.service.GetAllResidents(s.ctx, models.PaginationQuery{}, ResidentFilter{Voter: &voter})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(declared.ID, voters[0].ID)
}

func (s *ResidentServiceSuite) TestUploadDocumentMakesResidentVoterAndReplacesOld() {
	r := validResident("Ramon", "Magsaysay")
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, r))

	updated, err := s.service.UploadDocument(s.ctx, r.ID, models.VotersIDFront, strings.NewReader("img"), "image/jpeg", "front.JPG")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(updated.VotersIDFrontURL, "http://blobs.local/ids/residents/"))
	s.True(strings.HasSuffix(updated.VotersIDFrontURL, ".jpg"))
	s.True(updated.IsRegisteredVoter)
	s.Equal(1, s.blobs.Len())

	replaced, err := s.service.UploadDocument(s.ctx, r.ID, models.VotersIDFront, strings.NewReader("img2"), "image/jpeg", "front2.jpg")
	s.Require().NoError(err)
	s.NotEqual(updated.VotersIDFrontURL, replaced.VotersIDFrontURL)
	s.Equal(1, s.blobs.Len(), "replaced image is deleted")

	removed, err := s.service.RemoveDocument(s.ctx, r.ID, models.VotersIDFront)
	s.Require().NoError(err)
	s.Empty(removed.VotersIDFrontURL)
	s.False(removed.IsRegisteredVoter)
	s.Equal(0, s.blobs.Len())

	stored, err := s.service.GetResidentByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.False(stored.IsRegisteredVoter)
}

func (s *ResidentServiceSuite) TestUploadRejectsUnknownKind() {
	r := validResident("Ramon", "Magsaysay")
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, r))
	_, err := s.service.UploadDocument(s.ctx, r.ID, "passport", strings.NewReader("x"), "image/png", "a.png")
	s.ErrorIs(err, ErrValidation)
	_, err = s.service.UploadDocument(s.ctx, 999, models.NationalIDBack, strings.NewReader("x"), "image/png", "a.png")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ResidentServiceSuite) TestDeleteRemovesBlobsBestEffortAndRecounts() {
	head := validResident("Juan", "Luna")
	head.IsFamilyHead = true
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, head))
	_, err := s.service.UploadDocument(s.ctx, head.ID, models.NationalIDFront, strings.NewReader("img"), "image/png", "id.png")
	s.Require().NoError(err)
	// a URL from an older storage cannot be deleted; the delete still succeeds
	s.Require().NoError(s.db.Model(&models.Resident{}).Where("id = ?", head.ID).Update("id_url", "https://old.example.com/id.png").Error)

	s.Require().NoError(s.service.DeleteResident(s.ctx, s.actor, head.ID))

	s.Equal(0, s.blobs.Len())
	s.Equal(1.0, testutil.ToFloat64(s.service.Metrics.BlobDeleteFailures))
	s.Equal(0, s.household(head.HouseholdNumber).MembersCount)
	_, err = s.service.GetResidentByID(s.ctx, head.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.service.DeleteResident(s.ctx, s.actor, head.ID), ErrNotFound)
}

func (s *ResidentServiceSuite) TestUpdateMovesBetweenHouseholdsAndKeepsDocuments() {
	s.Require().NoError(s.db.Create(&models.Household{HouseholdNumber: "HH-001", HouseholdName: "Rizal", Purok: "Purok 1"}).Error)
	s.Require().NoError(s.db.Create(&models.Household{HouseholdNumber: "HH-002", HouseholdName: "Mabini", Purok: "Purok 1"}).Error)

	r := validResident("Apolinario", "Mabini")
	r.HouseholdNumber = "HH-001"
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, r))
	_, err := s.service.UploadDocument(s.ctx, r.ID, models.NationalIDBack, strings.NewReader("img"), "image/png", "b.png")
	s.Require().NoError(err)

	input := validResident("Apolinario", "Mabini")
	input.HouseholdNumber = "HH-002"
	input.Occupation = "Lawyer"
	updated, err := s.service.UpdateResident(s.ctx, s.actor, r.ID, input)
	s.Require().NoError(err)
	s.Equal("Lawyer", updated.Occupation)
	s.NotEmpty(updated.NationalIDBackURL)
	s.True(updated.IsRegisteredVoter)

	s.Equal(0, s.household("HH-001").MembersCount)
	s.Equal(1, s.household("HH-002").MembersCount)
}

func (s *ResidentServiceSuite) TestListFilters() {
	a := validResident("Andres", "Bonifacio")
	a.Sex = models.SexMale
	a.Purok = "Purok 4"
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, a))
	b := validResident("Gabriela", "Silang")
	s.Require().NoError(s.service.CreateResident(s.ctx, s.actor, b))

	got, total, err := s.service.GetAllResidents(s.ctx, models.PaginationQuery{}, ResidentFilter{Search: "bonif"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(a.ID, got[0].ID)

	got, _, err = s.service.GetAllResidents(s.ctx, models.PaginationQuery{}, ResidentFilter{Sex: models.SexFemale})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(b.ID, got[0].ID)

	got, _, err = s.service.GetAllResidents(s.ctx, models.PaginationQuery{}, ResidentFilter{Purok: "Purok 4"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)

	got, total, err = s.service.GetAllResidents(s.ctx, models.PaginationQuery{}, ResidentFilter{})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal("Bonifacio", got[0].LastName)
}

func TestResidentServiceSuite(t *testing.T) {
	suite.Run(t, new(ResidentServiceSuite))
}
