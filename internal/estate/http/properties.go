package http

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/search"
)

const maxUploadMemory = 32 << 20

func (h *Handler) listProperties(c *gin.Context) {
	items, err := h.properties.ListAll(c.Request.Context())
	if err != nil {
		respond.Fail(c, "properties.list", err)
		return
	}
	items = search.Filter(items, c.Query("q"), domain.Property.SearchFields)
	respond.OK(c, http.StatusOK, gin.H{"properties": items})
}

func (h *Handler) getProperty(c *gin.Context) {
	p, err := h.properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Fail(c, "properties.get", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"property": p})
}

// createProperty takes a multipart form with optional "model" and
// "thumbnail" files.
func (h *Handler) createProperty(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && err != http.ErrNotMultipart {
		respond.BadRequest(c, "invalid multipart form")
		return
	}

	files, closeFiles, err := propertyFiles(c)
	if err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	defer closeFiles()

	p, err := h.properties.Create(c.Request.Context(), repository.PropertyInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		City:        strings.TrimSpace(c.PostForm("city")),
		Description: c.PostForm("description"),
		ManagerID:   c.PostForm("managerId"),
	}, files)
	if err != nil {
		respond.Fail(c, "properties.create", err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"property": p})
}

// updateProperty changes only the form fields that were sent.
func (h *Handler) updateProperty(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && err != http.ErrNotMultipart {
		respond.BadRequest(c, "invalid multipart form")
		return
	}

	files, closeFiles, err := propertyFiles(c)
	if err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	defer closeFiles()

	var patch repository.PropertyPatch
	if v, ok := c.GetPostForm("name"); ok {
		v = strings.TrimSpace(v)
		patch.Name = &v
	}
	if v, ok := c.GetPostForm("city"); ok {
		v = strings.TrimSpace(v)
		patch.City = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		patch.Description = &v
	}
	if v, ok := c.GetPostForm("managerId"); ok {
		patch.ManagerID = &v
	}

	p, err := h.properties.Update(c.Request.Context(), c.Param("id"), patch, files)
	if err != nil {
		respond.Fail(c, "properties.update", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) deleteProperty(c *gin.Context) {
	if !respond.Confirmed(c) {
		return
	}
	if err := h.properties.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.Fail(c, "properties.delete", err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

func propertyFiles(c *gin.Context) (repository.PropertyFiles, func(), error) {
	var (
		files  repository.PropertyFiles
		opened []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	open := func(field string) (*repository.Upload, error) {
		fh, err := c.FormFile(field)
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		return &repository.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		}, nil
	}

	var err error
	if files.Model, err = open("model"); err != nil {
		closeAll()
		return files, func() {}, err
	}
	if files.Thumbnail, err = open("thumbnail"); err != nil {
		closeAll()
		return files, func() {}, err
	}
	return files, closeAll, nil
}
