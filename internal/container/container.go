package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/eventx/internal/config"
	"github.com/joshua-takyi/eventx/internal/helpers"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	MongoDBClient *mongo.Client
	Repo          *models.MongodbRepo

	AuthService      *services.AuthService
	PeopleService    *services.PeopleService
	EventService     *services.EventService
	BookingService   *services.BookingService
	MessageService   *services.MessageService
	AnalyticsService *services.AnalyticsService
}

// NewContainer creates a new dependency injection container. cld may be
// nil, in which case image uploads are skipped.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)

	var images services.ImageStore
	if cld != nil {
		images = helpers.NewCloudinaryStore(cld)
	}

	messageService := services.NewMessageService(repo, repo, repo)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Cloudinary:       cld,
		MongoDBClient:    mongoDBClient,
		Repo:             repo,
		AuthService:      services.NewAuthService(repo, repo, images, cfg.JWTSecret, logger),
		PeopleService:    services.NewPeopleService(repo, repo, images, cfg.SuperAdminEmail, logger),
		EventService:     services.NewEventService(repo, repo, repo),
		BookingService:   services.NewBookingService(repo, repo, repo, repo, cfg.TicketBaseURL, logger),
		MessageService:   messageService,
		AnalyticsService: services.NewAnalyticsService(repo, repo, repo, repo, messageService),
	}
}
