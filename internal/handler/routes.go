package handler

import (
	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
)

// RegisterRoutes mounts the whole API under /api.
func RegisterRoutes(r *gin.Engine, jwtSecret string, lh *ListingHandler, rh *ReviewHandler, nh *NotificationHandler) {
	api := r.Group("/api")

	public := api.Group("/")
	public.Use(middleware.OptionalJWTAuth(jwtSecret))
	{
		public.GET("/listings", lh.GetVisibleListings)
		public.GET("/listings/:id", lh.GetListingByID)
		public.GET("/listings/:id/reviews", rh.GetReviews)
		public.GET("/users/:id/reviews", rh.GetUserReviews)
		public.GET("/reviews/:id", rh.GetReview)
	}

	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		protected.POST("/listings", lh.CreateListing)
		protected.PUT("/listings/:id", lh.UpdateListing)
		protected.DELETE("/listings/:id", lh.DeleteListing)
		protected.PUT("/listings/:id/publish", lh.Publish)
		protected.PUT("/listings/:id/unpublish", lh.Unpublish)

		protected.POST("/reviews", rh.CreateReview)

		protected.GET("/notifications", nh.List)
		protected.GET("/notifications/unread-count", nh.UnreadCount)
		protected.GET("/notifications/:id", nh.Get)
		protected.PUT("/notifications/read-all", nh.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", nh.MarkAsRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	{
		admin.GET("/listings/pending", lh.GetPending)
		admin.PUT("/listings/:id/approve", lh.Approve)
		admin.GET("/reviews/pending", rh.GetPending)
		admin.PUT("/reviews/:id/approve", rh.Approve)
		admin.PUT("/reviews/:id/reject", rh.Reject)
		admin.POST("/notify/:kind", nh.Trigger)
	}
}
