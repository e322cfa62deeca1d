package campapi

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/camp/campsrv"
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/fsx"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// ANOColleges resolves the college of the calling ANO
type ANOColleges interface {
	ForANO(ctx context.Context, anoID kernel.UserID) (*college.College, error)
}

type CampHandlers struct {
	service  *campsrv.CampService
	colleges ANOColleges
}

func NewCampHandlers(service *campsrv.CampService, colleges ANOColleges) *CampHandlers {
	return &CampHandlers{service: service, colleges: colleges}
}

func (h *CampHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	g := router.Group("/camps", mw.Authenticate())

	g.Get("/", mw.RequireScope(scopes.CampsRead), h.List)
	g.Get("/published", mw.RequireScope(scopes.CampsRead), h.Published)
	g.Get("/planning-colleges", mw.RequireScope(scopes.CampsWrite), h.PlanningColleges)
	g.Get("/vacancies/mine", mw.RequireScope(scopes.SubmissionsWrite), h.MyVacancies)
	g.Get("/vacancies/:collegeId", mw.RequireScope(scopes.CampsWrite), h.CollegeVacancies)
	g.Get("/:id", mw.RequireScope(scopes.CampsRead), h.Get)
	g.Get("/:id/letter", mw.RequireScope(scopes.CampsRead), h.Letter)
	g.Post("/", mw.RequireScope(scopes.CampsWrite), h.Create)
	g.Put("/:id", mw.RequireScope(scopes.CampsWrite), h.Update)
	g.Patch("/:id/status", mw.RequireScope(scopes.CampsWrite), h.SetStatus)
	g.Delete("/:id", mw.RequireScope(scopes.CampsWrite), h.Delete)
}

func (h *CampHandlers) List(c *fiber.Ctx) error {
	camps, err := h.service.ListCamps(c.UserContext(), camp.ListFilter{
		Query:  c.Query("q"),
		Status: camp.Status(c.Query("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"camps": camps, "total": len(camps)})
}

func (h *CampHandlers) Published(c *fiber.Ctx) error {
	camps, err := h.service.ListPublished(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"camps": camps, "total": len(camps)})
}

func (h *CampHandlers) PlanningColleges(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	colleges, err := h.service.PlanningColleges(c.UserContext(), ac.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"colleges": colleges})
}

func (h *CampHandlers) MyVacancies(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	col, err := h.colleges.ForANO(c.UserContext(), ac.UserID)
	if err != nil {
		return err
	}
	v, err := h.service.VacanciesForCollege(c.UserContext(), col.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"college": col, "vacancies": v})
}

func (h *CampHandlers) CollegeVacancies(c *fiber.Ctx) error {
	v, err := h.service.VacanciesForCollege(c.UserContext(), kernel.CollegeID(c.Params("collegeId")))
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *CampHandlers) Get(c *fiber.Ctx) error {
	cp, err := h.service.GetCamp(c.UserContext(), kernel.CampID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(cp)
}

func (h *CampHandlers) Letter(c *fiber.Ctx) error {
	d, err := h.service.OpenLetter(c.UserContext(), kernel.CampID(c.Params("id")))
	if err != nil {
		return err
	}
	if d.URL != "" {
		return c.JSON(fiber.Map{"url": d.URL, "name": d.Name})
	}
	c.Set(fiber.HeaderContentType, d.ContentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+d.Name+`"`)
	return c.SendStream(d.Body)
}

func (h *CampHandlers) Create(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	req, letter, err := parseCampForm(c)
	if err != nil {
		return err
	}
	resp, err := h.service.CreateCamp(c.UserContext(), ac.Email, req, letter)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *CampHandlers) Update(c *fiber.Ctx) error {
	req, letter, err := parseCampForm(c)
	if err != nil {
		return err
	}
	cp, err := h.service.UpdateCamp(c.UserContext(), kernel.CampID(c.Params("id")), req, letter)
	if err != nil {
		return err
	}
	return c.JSON(cp)
}

func (h *CampHandlers) SetStatus(c *fiber.Ctx) error {
	var body struct {
		Status camp.Status `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	cp, err := h.service.SetStatus(c.UserContext(), kernel.CampID(c.Params("id")), body.Status)
	if err != nil {
		return err
	}
	return c.JSON(cp)
}

func (h *CampHandlers) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteCamp(c.UserContext(), kernel.CampID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseCampForm accepts a JSON body, or a multipart form carrying the JSON in
// "camp" and the letter in "official_letter".
func parseCampForm(c *fiber.Ctx) (camp.CampRequest, *camp.Letter, error) {
	var req camp.CampRequest

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return req, nil, errx.Validation("invalid request body").WithCause(err)
		}
		return req, nil, nil
	}

	if err := json.Unmarshal([]byte(c.FormValue("camp")), &req); err != nil {
		return req, nil, errx.Validation("invalid camp payload").WithCause(err)
	}

	fh, err := c.FormFile("official_letter")
	if err != nil {
		return req, nil, nil
	}
	if fh.Size > camp.MaxLetterSize {
		return req, nil, camp.ErrLetterTooLarge().WithDetail("size", fh.Size)
	}
	f, err := fh.Open()
	if err != nil {
		return req, nil, errx.Wrap(err, "failed to open upload", errx.TypeInternal)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return req, nil, errx.Wrap(err, "failed to read upload", errx.TypeInternal)
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType == "" || contentType == fiber.MIMEOctetStream {
		contentType = fsx.DetectContentType(fh.Filename, data)
	}
	return req, &camp.Letter{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}
