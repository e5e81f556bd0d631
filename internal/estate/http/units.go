package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/search"
	"github.com/skyproperties/sky-backend/internal/views"
)

// listUnits answers every unit with the name of its property.
func (h *Handler) listUnits(c *gin.Context) {
	rows, err := views.UnitRows(c.Request.Context(), h.units, h.properties)
	if err != nil {
		respond.Fail(c, "units.list", err)
		return
	}
	rows = search.Filter(rows, c.Query("q"), views.UnitRow.SearchFields)
	respond.OK(c, http.StatusOK, gin.H{"units": rows})
}

func (h *Handler) getUnit(c *gin.Context) {
	u, err := h.units.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Fail(c, "units.get", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"unit": u})
}

// bindUnitForm accepts the form as JSON or form fields. JSON fields may be
// numbers or text; either way ParseUnitForm does the parsing.
func bindUnitForm(c *gin.Context) (repository.UnitInput, bool) {
	form, err := readUnitForm(c)
	if err != nil {
		respond.BadRequest(c, "invalid unit form")
		return repository.UnitInput{}, false
	}
	in, err := repository.ParseUnitForm(form)
	if err != nil {
		respond.Fail(c, "units.parse", err)
		return repository.UnitInput{}, false
	}
	return in, true
}

func readUnitForm(c *gin.Context) (repository.UnitForm, error) {
	if c.ContentType() != binding.MIMEJSON {
		var form repository.UnitForm
		err := c.ShouldBind(&form)
		return form, err
	}
	var data map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return repository.UnitForm{}, err
	}
	return repository.DecodeUnitForm(data)
}

func (h *Handler) createUnit(c *gin.Context) {
	in, ok := bindUnitForm(c)
	if !ok {
		return
	}
	u, err := h.units.Create(c.Request.Context(), in)
	if err != nil {
		respond.Fail(c, "units.create", err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"unit": u})
}

func (h *Handler) updateUnit(c *gin.Context) {
	in, ok := bindUnitForm(c)
	if !ok {
		return
	}
	u, err := h.units.Update(c.Request.Context(), c.Param("id"), in.Patch())
	if err != nil {
		respond.Fail(c, "units.update", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"unit": u})
}

func (h *Handler) deleteUnit(c *gin.Context) {
	if !respond.Confirmed(c) {
		return
	}
	if err := h.units.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.Fail(c, "units.delete", err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}
