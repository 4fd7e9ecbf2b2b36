package api

import (
	"net/http"
	"strconv"

	"khmerdownload-api/internal/database"
	"khmerdownload-api/internal/models"
	"khmerdownload-api/internal/response"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListPrograms returns the program catalog
func ListPrograms(c *gin.Context) {
	programService := services.NewProgramService(database.GetDB())
	programs, err := programService.GetAll()
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessJSON(c, programs)
}

// CreateProgram creates a program listing from a multipart form with
// optional file/icon/image uploads. Admin only.
func CreateProgram(c *gin.Context) {
	program, err := programFromForm(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if program.Title == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Title is required")
		return
	}

	programService := services.NewProgramService(database.GetDB())
	if err := programService.Create(program); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(program))
}

// UpdateProgram updates a program listing. Admin only.
func UpdateProgram(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid program id")
		return
	}

	updates := make(map[string]interface{})
	for form, column := range map[string]string{
		"title":                 "title",
		"description":           "description",
		"category":              "category",
		"version":               "version",
		"file_size":             "file_size",
		"external_download_url": "external_download_url",
	} {
		if v, ok := c.GetPostForm(form); ok {
			updates[column] = v
		}
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "Invalid price: "+v)
			return
		}
		updates["price"] = price
	}
	if v, ok := c.GetPostForm("is_paid"); ok {
		updates["is_paid"] = v == "true"
	}
	for field, column := range uploadColumns {
		path, err := saveUpload(c, field)
		if err != nil {
			fail(c, err)
			return
		}
		if path != "" {
			updates[column] = path
		}
	}

	programService := services.NewProgramService(database.GetDB())
	program, err := programService.Update(id, updates)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, program)
}

// DeleteProgram removes a program listing. Admin only.
func DeleteProgram(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid program id")
		return
	}

	programService := services.NewProgramService(database.GetDB())
	if err := programService.Delete(id); err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, gin.H{"message": "Program deleted"})
}

// DownloadProgram resolves the download locator for a program. Free items
// are served directly; paid items require the bill number of a SUCCESS
// transaction (passed as ?bill_number=).
func DownloadProgram(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid program id")
		return
	}

	db := database.GetDB()
	programService := services.NewProgramService(db)
	program, err := programService.GetByID(id)
	if err != nil {
		fail(c, err)
		return
	}

	paymentService := services.NewPaymentService(db, merchantFromConfig(), "", 0)
	if err := paymentService.CanDownload(program, c.Query("bill_number")); err != nil {
		fail(c, err)
		return
	}

	if err := programService.IncrementDownloads(id); err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, gin.H{"download_locator": program.DownloadLocator()})
}

var uploadColumns = map[string]string{
	"file":  "download_url",
	"icon":  "icon_url",
	"image": "image_url",
}

func programFromForm(c *gin.Context) (*models.Program, error) {
	price := decimal.Zero
	if v := c.PostForm("price"); v != "" {
		var err error
		if price, err = decimal.NewFromString(v); err != nil {
			return nil, err
		}
	}

	program := &models.Program{
		Title:               c.PostForm("title"),
		Description:         c.PostForm("description"),
		Category:            c.DefaultPostForm("category", "General"),
		Version:             c.PostForm("version"),
		FileSize:            c.PostForm("file_size"),
		ExternalDownloadURL: c.PostForm("external_download_url"),
		Price:               price,
		IsPaid:              c.PostForm("is_paid") == "true",
	}

	if path, err := saveUpload(c, "file"); err != nil {
		return nil, err
	} else if path != "" {
		program.DownloadURL = path
	}
	if path, err := saveUpload(c, "icon"); err != nil {
		return nil, err
	} else if path != "" {
		program.IconURL = path
	}
	if path, err := saveUpload(c, "image"); err != nil {
		return nil, err
	} else if path != "" {
		program.ImageURL = path
	}

	return program, nil
}

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
