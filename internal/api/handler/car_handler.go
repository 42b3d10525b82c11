package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carhub/listings-api/internal/core/ports"
)

// CarHandler handles HTTP requests for car listing operations. All routes
// sit behind the Auth middleware; the owner id always comes from the token,
// never from the request body.
type CarHandler struct {
	service ports.CarService
}

func NewCarHandler(service ports.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// Create handles POST /api/cars (multipart form).
//
// @Summary      Create a car listing
// @Tags         cars
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Listing title"
// @Param        description  formData  string  true   "Listing description"
// @Param        tags         formData  string  false  "Comma-separated tags"
// @Param        images       formData  file    true   "Image files"
// @Success      201  {object}  carResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cars [post]
func (h *CarHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	files, closeFiles, err := formFiles(c)
	if err != nil {
		return err
	}
	defer closeFiles()

	car, err := h.service.Create(c.Request().Context(), ports.CreateCarInput{
		OwnerID:     userID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Tags:        c.FormValue("tags"),
		Files:       files,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCarResponse(car))
}

// List handles GET /api/cars.
//
// @Summary      List the caller's car listings
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   carResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cars [get]
func (h *CarHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cars, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCarListResponse(cars))
}

// Get handles GET /api/cars/:id.
//
// @Summary      Get a car listing by id
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  carResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cars/{id} [get]
func (h *CarHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	car, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCarResponse(car))
}

// Search handles GET /api/cars/search?keyword=.
//
// @Summary      Search the caller's listings by title
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  true  "Case-insensitive title substring"
// @Success      200      {array}   carResponse
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /cars/search [get]
func (h *CarHandler) Search(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cars, err := h.service.Search(c.Request().Context(), userID, c.QueryParam("keyword"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCarListResponse(cars))
}

// Update handles PUT /api/cars/:id (multipart form). Images are replaced
// only when new files are attached.
//
// @Summary      Update a car listing
// @Tags         cars
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Listing id"
// @Param        title        formData  string  false  "Listing title"
// @Param        description  formData  string  false  "Listing description"
// @Param        tags         formData  string  false  "Comma-separated tags"
// @Param        images       formData  file    false  "Replacement image files"
// @Success      200  {object}  carResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cars/{id} [put]
func (h *CarHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	files, closeFiles, err := formFiles(c)
	if err != nil {
		return err
	}
	defer closeFiles()

	car, err := h.service.Update(c.Request().Context(), ports.UpdateCarInput{
		OwnerID:     userID,
		ID:          c.Param("id"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Tags:        c.FormValue("tags"),
		Files:       files,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCarResponse(car))
}

// Delete handles DELETE /api/cars/:id.
//
// @Summary      Delete a car listing
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  deleteCarResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cars/{id} [delete]
func (h *CarHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteCarResponse{Message: "car deleted"})
}

// formFiles opens every file attached under the "images" field, preserving
// attachment order. The returned closer releases all opened files; callers
// must defer it. A request without a multipart body yields no files.
func formFiles(c echo.Context) ([]ports.FileUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// JSON or empty-body requests land here; treat as "no attachments".
		return nil, func() {}, nil
	}

	headers := form.File["images"]
	files := make([]ports.FileUpload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))

	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "unreadable file upload")
		}
		opened = append(opened, src)
		files = append(files, ports.FileUpload{Name: fh.Filename, Content: src})
	}

	return files, closeAll, nil
}
