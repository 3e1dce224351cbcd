package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"attendx_backend/handlers"
	"attendx_backend/middleware"
	"attendx_backend/pipeline"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, db *sql.DB, pipe *pipeline.Pipeline, jwtSecret []byte) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(db, jwtSecret)
	faceHandler := handlers.NewFaceHandler(pipe)
	attendanceHandler := handlers.NewAttendanceHandler(db, pipe)
	studentHandler := handlers.NewStudentHandler(db)
	exportHandler := handlers.NewExportHandler(db)

	// Public routes. Verification and marking stay open for kiosks; the
	// rate limit and face match are the gate, not a login.
	r.GET("/health", healthHandler.HealthCheck)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/verify_face", faceHandler.VerifyFace)
	r.POST("/mark_attendance", attendanceHandler.MarkAttendance)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(db, jwtSecret))
	{
		// Face enrollment
		protected.POST("/register_face", faceHandler.RegisterFace)
		protected.POST("/delete_face", faceHandler.DeleteFace)

		// Student routes
		protected.POST("/students", studentHandler.CreateStudent)
		protected.GET("/students", studentHandler.GetStudents)

		// Attendance administration
		protected.GET("/attendance/history/:student_id", attendanceHandler.GetHistory)
		protected.DELETE("/attendance/:id", attendanceHandler.DeleteAttendance)

		// Report export
		protected.GET("/export/csv", exportHandler.ExportCSV)
		protected.GET("/export/pdf", exportHandler.ExportPDF)

		// Logout route
		protected.POST("/logout", authHandler.Logout)
	}
}
