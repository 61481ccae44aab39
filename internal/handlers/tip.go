package handlers

import (
	"net/http"
	"strings"
	"time"
	"tipstock/internal/metrics"
	"tipstock/internal/middleware"
	"tipstock/internal/models"
	"tipstock/internal/services"
	"tipstock/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const publicListCacheKey = "tips:public:first"

type TipHandler struct{}

func NewTipHandler() *TipHandler {
	return &TipHandler{}
}

// queryFromRequest reads the shared list parameters of both tip lists.
func queryFromRequest(c *gin.Context, scope string) services.TipQuery {
	return services.TipQuery{
		Scope:        scope,
		Query:        c.Query("query"),
		TagQuery:     c.Query("tagQuery"),
		SearchTarget: c.DefaultQuery("searchTarget", services.TargetAll),
		Order:        c.DefaultQuery("displayOrder", services.OrderUpdated),
		Page:         utils.StringToInt(c.DefaultQuery("page", "1")),
	}
}

func (h *TipHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	q := queryFromRequest(c, services.ScopeMine)

	page, err := services.ListTips(user, q)
	if err != nil {
		RenderError(c, err)
		return
	}
	Render(c, http.StatusOK, "tip/list.html", gin.H{
		"Title":  "My Tips",
		"Scope":  "mine",
		"Page":   page,
		"Params": q,
	})
}

func (h *TipHandler) ListPublic(c *gin.Context) {
	user := middleware.CurrentUser(c)
	q := queryFromRequest(c, services.ScopePublic)

	// Only the unfiltered first page is hot enough to cache.
	cacheable := q.Query == "" && q.TagQuery == "" && q.SearchTarget == services.TargetAll &&
		q.Order == services.OrderUpdated && q.Page <= 1

	var page *services.TipPage
	if cacheable {
		if cached := utils.GetCache().Get(publicListCacheKey); cached != nil {
			page = cached.(*services.TipPage)
		}
	}
	if page == nil {
		var err error
		page, err = services.ListTips(user, q)
		if err != nil {
			RenderError(c, err)
			return
		}
		if cacheable {
			utils.GetCache().Set(publicListCacheKey, page, 1*time.Minute)
		}
	}

	Render(c, http.StatusOK, "tip/list.html", gin.H{
		"Title":  "Public Tips",
		"Scope":  "public",
		"Page":   page,
		"Params": q,
	})
}

func (h *TipHandler) Detail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))

	detail, err := services.GetTipDetail(user, tipID)
	if err != nil {
		RenderError(c, err)
		return
	}
	Render(c, http.StatusOK, "tip/detail.html", gin.H{
		"Title":       detail.Tip.Title,
		"Detail":      detail,
		"Description": utils.RenderMarkdown(detail.Tip.Description),
		"IsOwner":     user != nil && user.ID == detail.Tip.CreatedByID,
		"Info":        c.Query("info"),
	})
}

func (h *TipHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "tip/form.html", gin.H{"Title": "New Tip"})
}

func (h *TipHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	in, err := h.inputFromForm(c)
	if err != nil {
		metrics.IncTipWrite("create", "error")
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "tip/form.html", gin.H{"Title": "New Tip", "Error": message, "Input": in})
		return
	}

	tip, err := services.CreateTip(user, *in)
	if err != nil {
		metrics.IncTipWrite("create", "error")
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "tip/form.html", gin.H{"Title": "New Tip", "Error": message, "Input": in})
		return
	}
	metrics.IncTipWrite("create", "ok")
	h.invalidateListCache(tip)

	c.Redirect(http.StatusFound, "/tips")
}

func (h *TipHandler) ShowEdit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))

	detail, err := services.GetTipDetail(user, tipID)
	if err != nil {
		RenderError(c, err)
		return
	}
	if detail.Tip.CreatedByID != user.ID {
		RenderError(c, &services.PermissionError{Message: "you cannot edit this tip"})
		return
	}
	Render(c, http.StatusOK, "tip/form.html", gin.H{"Title": "Edit Tip", "Detail": detail})
}

func (h *TipHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))

	in, err := h.inputFromForm(c)
	if err != nil {
		metrics.IncTipWrite("update", "error")
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "tip/form.html", gin.H{"Title": "Edit Tip", "Error": message, "Input": in})
		return
	}

	tip, err := services.UpdateTip(user, tipID, *in)
	if err != nil {
		metrics.IncTipWrite("update", "error")
		if services.IsPermission(err) || services.IsNotFound(err) {
			RenderError(c, err)
			return
		}
		_, message := fieldError(err)
		Render(c, http.StatusBadRequest, "tip/form.html", gin.H{"Title": "Edit Tip", "Error": message, "Input": in})
		return
	}
	metrics.IncTipWrite("update", "ok")
	h.invalidateListCache(tip)

	c.Redirect(http.StatusFound, "/tips/"+c.Param("id"))
}

func (h *TipHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tipID := uint(utils.StringToInt(c.Param("id")))

	if err := services.DeleteTip(user, tipID); err != nil {
		metrics.IncTipWrite("delete", "error")
		RenderError(c, err)
		return
	}
	metrics.IncTipWrite("delete", "ok")
	utils.GetCache().Delete(publicListCacheKey)

	c.Redirect(http.StatusFound, "/tips")
}

// inputFromForm assembles a TipInput from the multipart form. Rows where
// both filename and content are blank are skipped so the form can always
// render five code slots.
func (h *TipHandler) inputFromForm(c *gin.Context) (*services.TipInput, error) {
	in := &services.TipInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		URL:         c.PostForm("url"),
		Visibility:  c.DefaultPostForm("public_set", models.TipPrivate),
	}

	filenames := c.PostFormArray("code_filename")
	contents := c.PostFormArray("code_content")
	for i := range contents {
		filename := ""
		if i < len(filenames) {
			filename = strings.TrimSpace(filenames[i])
		}
		content := contents[i]
		if filename == "" && strings.TrimSpace(content) == "" {
			continue
		}
		in.Codes = append(in.Codes, services.CodeInput{Filename: filename, Content: content})
	}

	for _, tag := range strings.Split(c.PostForm("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			in.Tags = append(in.Tags, tag)
		}
	}

	if fh, err := c.FormFile("upload_file"); err == nil {
		path, err := services.SaveAttachment(fh)
		if err != nil {
			return in, err
		}
		in.UploadFile = path
	}

	return in, nil
}

func (h *TipHandler) invalidateListCache(tip *models.Tip) {
	if tip.IsPublic() {
		utils.GetCache().Delete(publicListCacheKey)
	}
	zap.L().Debug("tip written", zap.Uint("tip_id", tip.ID), zap.String("visibility", tip.Visibility))
}
