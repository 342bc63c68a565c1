package handlers

import (
	"encoding/base64"
	"errors"
	"mime"
	"net/url"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"underlog/internal/domain"
	"underlog/internal/http/middleware"
	"underlog/internal/infra/logging"
)

// ProjectHandler serves the per-user project and image CRUD surface. All
// routes run behind middleware.RequireUser.
type ProjectHandler struct {
	Projects      domain.ProjectStore
	Images        domain.ImageStore
	MaxImageBytes int
}

type projectPayload struct {
	Name   string         `json:"name"`
	Body   string         `json:"body"`
	Images []imagePayload `json:"images"`
}

type imagePayload struct {
	Name       string `json:"name"`
	BlobBase64 string `json:"blob_base64"`
}

// List returns the caller's projects, most recently updated first.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	projects, err := h.Projects.ListProjects(c.Context(), userID)
	if err != nil {
		logging.Error("Project list failed", "user_id", userID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to retrieve projects")
	}

	out := make([]fiber.Map, 0, len(projects))
	for _, p := range projects {
		out = append(out, fiber.Map{"id": p.ID, "name": p.Name})
	}
	return c.JSON(out)
}

// Create inserts a new project for the caller.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var payload projectPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	name := payload.Name
	if name == "" {
		name = domain.DefaultProjectName
	}

	id, err := h.Projects.CreateProject(c.Context(), userID, name, payload.Body)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			return fiber.NewError(fiber.StatusConflict, "Project name already exists")
		}
		logging.Error("Project create failed", "user_id", userID, "name", name, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create project")
	}

	logging.Info("Project created", "project_id", id, "name", name, "user_id", userID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Project created successfully",
		"projectId": id,
		"name":      name,
	})
}

// Get returns one owned project with its attachment names.
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}

	project, err := h.Projects.ProjectByID(c.Context(), userID, int64(projectID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Project not found")
		}
		logging.Error("Project fetch failed", "project_id", projectID, "user_id", userID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to retrieve project")
	}

	names, err := h.Images.ListImageNames(c.Context(), project.ID)
	if err != nil {
		logging.Error("Image name list failed", "project_id", projectID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to retrieve project")
	}

	return c.JSON(fiber.Map{
		"id":          project.ID,
		"name":        project.Name,
		"body":        project.Body,
		"image_names": names,
	})
}

// Update renames and rewrites a project and reconciles its attachments:
// images missing from the request are deleted, images carrying a blob are
// upserted, images named without a blob are left untouched.
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}

	var payload projectPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	name := payload.Name
	if name == "" {
		name = domain.DefaultProjectName
	}

	err = h.Projects.UpdateProject(c.Context(), userID, int64(projectID), name, payload.Body)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Project not found or access denied")
		}
		if errors.Is(err, domain.ErrDuplicateName) {
			return fiber.NewError(fiber.StatusConflict, "Another project with that name already exists")
		}
		logging.Error("Project update failed", "project_id", projectID, "user_id", userID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update project")
	}

	if err := h.reconcileImages(c, int64(projectID), payload.Images); err != nil {
		return err
	}

	logging.Info("Project updated", "project_id", projectID, "user_id", userID)
	return c.JSON(fiber.Map{"message": "Project updated successfully"})
}

func (h *ProjectHandler) reconcileImages(c *fiber.Ctx, projectID int64, images []imagePayload) error {
	existing, err := h.Images.ListImageNames(c.Context(), projectID)
	if err != nil {
		logging.Error("Image reconcile list failed", "project_id", projectID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update project")
	}

	requested := make(map[string]imagePayload, len(images))
	for _, img := range images {
		if img.Name != "" {
			requested[img.Name] = img
		}
	}

	for _, name := range existing {
		if _, keep := requested[name]; !keep {
			logging.Info("Deleting image", "project_id", projectID, "name", name)
			if err := h.Images.DeleteImage(c.Context(), projectID, name); err != nil {
				logging.Error("Image delete failed", "project_id", projectID, "name", name, "error", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to update project")
			}
		}
	}

	for name, img := range requested {
		if img.BlobBase64 == "" {
			continue
		}
		blob, err := base64.StdEncoding.DecodeString(img.BlobBase64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid image data (base64) for "+name)
		}
		if h.MaxImageBytes > 0 && len(blob) > h.MaxImageBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Image "+name+" exceeds allowed size")
		}
		if err := h.Images.UpsertImage(c.Context(), projectID, name, blob); err != nil {
			logging.Error("Image upsert failed", "project_id", projectID, "name", name, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update project")
		}
	}
	return nil
}

// GetImage streams one attachment of a project the caller owns.
func (h *ProjectHandler) GetImage(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	projectID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid image name")
	}

	owner, err := h.Projects.ProjectOwner(c.Context(), int64(projectID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Project not found")
		}
		logging.Error("Project owner lookup failed", "project_id", projectID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to retrieve image")
	}
	if owner != userID {
		logging.Warn("Cross-user image access blocked", "project_id", projectID, "user_id", userID, "owner", owner)
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	}

	blob, err := h.Images.ImageBlob(c.Context(), int64(projectID), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Image not found")
		}
		logging.Error("Image fetch failed", "project_id", projectID, "name", name, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to retrieve image")
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(blob)
}
