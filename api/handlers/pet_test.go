package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/api/handlers"
	"github.com/linesmerrill/pet-health-api/databases"
	mocksdb "github.com/linesmerrill/pet-health-api/databases/mocks"
	"github.com/linesmerrill/pet-health-api/models"
)

type fakeUploader struct {
	petID string
	data  []byte
	err   error
}

func (f *fakeUploader) UploadPetImage(_ context.Context, petID string, file io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.petID = petID
	f.data, _ = io.ReadAll(file)
	return "https://res.cloudinary.com/demo/image/upload/pets/" + petID + ".png", nil
}

func TestPet_PetByIDHandler(t *testing.T) {
	db := &mocksdb.PetDatabase{}
	db.On("FindByID", mock.Anything, "pet-1", testUserID).Return(&models.Pet{Name: "Rex", UserID: testUserID}, nil)
	db.On("FindByID", mock.Anything, "pet-2", testUserID).Return(nil, databases.ErrNotFound)
	p := handlers.Pet{DB: db}

	req := authedRequest(t, "GET", "/api/v1/pets/pet-1", nil, map[string]string{"pet_id": "pet-1"})
	rr := serve(p.PetByIDHandler, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.Pet
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Rex", got.Name)

	req = authedRequest(t, "GET", "/api/v1/pets/pet-2", nil, map[string]string{"pet_id": "pet-2"})
	rr = serve(p.PetByIDHandler, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPet_PetsHandler(t *testing.T) {
	db := &mocksdb.PetDatabase{}
	db.On("FindByUser", mock.Anything, testUserID).Return(nil, errors.New("mongo unavailable"))

	req := authedRequest(t, "GET", "/api/v1/pets", nil, nil)
	rr := serve(handlers.Pet{DB: db}.PetsHandler, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get pets")
}

func TestPet_CreatePetHandler(t *testing.T) {
	db := &mocksdb.PetDatabase{}
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(p *models.Pet) bool {
		return p.UserID == testUserID && p.Image == "" && p.ID.IsZero()
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Pet).ID = primitive.NewObjectID()
	}).Return(nil)

	body := `{"name": "Rex", "type": "dog", "weight": 12.5, "image": "https://elsewhere/x.png", "userId": "someone-else"}`
	req := authedRequest(t, "POST", "/api/v1/pets", body, nil)
	rr := serve(handlers.Pet{DB: db}.CreatePetHandler, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	db.AssertExpectations(t)
}

func TestPet_CreatePetHandlerInvalid(t *testing.T) {
	for _, body := range []string{`{"type": "cat"}`, `{"name": "Mia", "weight": -1}`, `not json`} {
		req := authedRequest(t, "POST", "/api/v1/pets", body, nil)
		rr := serve(handlers.Pet{DB: &mocksdb.PetDatabase{}}.CreatePetHandler, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestPet_UpdatePetHandler(t *testing.T) {
	id := primitive.NewObjectID()
	db := &mocksdb.PetDatabase{}
	db.On("FindByID", mock.Anything, id.Hex(), testUserID).
		Return(&models.Pet{ID: id, UserID: testUserID, Name: "Rex", Image: "https://img/rex.png"}, nil)
	db.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Pet) bool {
		return p.Name == "Rex" && p.Weight == 14 && p.Image == "https://img/rex.png" && p.ID == id
	})).Return(nil)

	req := authedRequest(t, "PUT", "/api/v1/pets/"+id.Hex(), `{"weight": 14, "image": ""}`, map[string]string{"pet_id": id.Hex()})
	rr := serve(handlers.Pet{DB: db}.UpdatePetHandler, req)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	db.AssertExpectations(t)
}

func TestPet_DeletePetHandler(t *testing.T) {
	db := &mocksdb.PetDatabase{}
	db.On("DeleteOne", mock.Anything, "pet-1", testUserID).Return(databases.ErrNotFound)

	req := authedRequest(t, "DELETE", "/api/v1/pets/pet-1", nil, map[string]string{"pet_id": "pet-1"})
	rr := serve(handlers.Pet{DB: db}.DeletePetHandler, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func imageRequest(t *testing.T, petID, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="rex.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", "/api/v1/pets/"+petID+"/image", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = mux.SetURLVars(req, map[string]string{"pet_id": petID})
	return req.WithContext(api.WithUserID(req.Context(), testUserID))
}

func TestPet_UploadPetImageHandler(t *testing.T) {
	const url = "https://res.cloudinary.com/demo/image/upload/pets/pet-1.png"
	db := &mocksdb.PetDatabase{}
	db.On("FindByID", mock.Anything, "pet-1", testUserID).Return(&models.Pet{}, nil)
	db.On("SetImage", mock.Anything, "pet-1", testUserID, url).Return(nil)
	up := &fakeUploader{}

	rr := serve(handlers.Pet{DB: db, Uploader: up}.UploadPetImageHandler, imageRequest(t, "pet-1", "image/png"))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "pet-1", up.petID)
	assert.Equal(t, []byte("png-bytes"), up.data)
	assert.JSONEq(t, `{"image": "`+url+`"}`, rr.Body.String())
	db.AssertExpectations(t)
}

func TestPet_UploadPetImageHandlerErrors(t *testing.T) {
	db := &mocksdb.PetDatabase{}
	db.On("FindByID", mock.Anything, "pet-1", testUserID).Return(&models.Pet{}, nil)

	rr := serve(handlers.Pet{DB: db}.UploadPetImageHandler, imageRequest(t, "pet-1", "image/png"))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = serve(handlers.Pet{DB: db, Uploader: &fakeUploader{}}.UploadPetImageHandler, imageRequest(t, "pet-1", "application/pdf"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(handlers.Pet{DB: db, Uploader: &fakeUploader{err: errors.New("quota exceeded")}}.UploadPetImageHandler, imageRequest(t, "pet-1", "image/jpeg"))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	db.AssertNotCalled(t, "SetImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
