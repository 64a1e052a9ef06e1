package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"courseplanner/internal/catalog"
	"courseplanner/internal/csvio"
	"courseplanner/internal/engine"
)

type combinationsRequest struct {
	Courses       []string        `json:"courses"`
	PinnedCrns    []string        `json:"pinnedCrns"`
	ExcludedCrns  []string        `json:"excludedCrns"`
	Events        []catalog.Event `json:"events"`
	SortingOption *int            `json:"sortingOption"`
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("cannot load .env file: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	catalogFile := getEnv("CATALOG_FILE", "catalog.json")
	port := getEnv("PORT", "8080")

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		logger.Fatal("cannot read catalog file", zap.String("file", catalogFile), zap.Error(err))
	}
	raw, err := catalog.DecodeJSON(data)
	if err != nil {
		logger.Fatal("cannot decode catalog file", zap.String("file", catalogFile), zap.Error(err))
	}
	cat, err := catalog.New(raw, logger)
	if err != nil {
		logger.Fatal("cannot build catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("courses", len(cat.Courses)),
		zap.Time("updatedAt", cat.UpdatedAt),
		zap.Int("version", cat.Version))

	r := gin.Default()

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"updatedAt": cat.UpdatedAt,
			"version":   cat.Version,
			"courses":   len(cat.Courses),
		})
	})

	r.GET("/api/courses/:id", func(ctx *gin.Context) {
		course := cat.FindCourse(ctx.Param("id"))
		if course == nil {
			ctx.Status(http.StatusNotFound)
			return
		}
		ctx.JSON(http.StatusOK, courseResponse(course))
	})

	r.GET("/api/sections/:crn", func(ctx *gin.Context) {
		section := cat.FindSection(ctx.Param("crn"))
		if section == nil {
			ctx.Status(http.StatusNotFound)
			return
		}
		ctx.JSON(http.StatusOK, sectionResponse(section))
	})

	r.POST("/api/combinations", func(ctx *gin.Context) {
		var request combinationsRequest
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		combinations := engine.Combinations(cat, request.Courses, request.PinnedCrns, request.ExcludedCrns, request.Events)
		if request.SortingOption != nil {
			sorted, err := engine.Sort(combinations, *request.SortingOption, request.Events)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			combinations = sorted
		}

		if ctx.Query("format") == "csv" {
			csv, err := csvio.ExportCombinationsString(combinations)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.String(http.StatusOK, csv)
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"combinations": combinations})
	})

	logger.Info("listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func courseResponse(course *catalog.Course) gin.H {
	sections := make([]gin.H, 0, len(course.Sections))
	for _, section := range course.Sections {
		sections = append(sections, sectionResponse(section))
	}
	return gin.H{
		"id":          course.ID,
		"title":       course.Title,
		"description": course.Description,
		"hasLab":      course.HasLab,
		"sections":    sections,
	}
}

func sectionResponse(section *catalog.Section) gin.H {
	meetings := make([]gin.H, 0, len(section.Meetings))
	for _, meeting := range section.Meetings {
		meetings = append(meetings, gin.H{
			"period":      meeting.Period,
			"days":        meeting.Days,
			"room":        meeting.Room,
			"instructors": meeting.Instructors,
		})
	}
	return gin.H{
		"crn":          section.CRN,
		"id":           section.ID,
		"course":       section.Course.ID,
		"scheduleType": section.ScheduleType,
		"campus":       section.Campus,
		"deliveryMode": section.DeliveryMode,
		"gradeBasis":   section.GradeBasis,
		"creditHours":  section.CreditHours,
		"instructors":  section.Instructors,
		"meetings":     meetings,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
