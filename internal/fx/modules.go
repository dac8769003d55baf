package fx

import (
	"commsafe/internal/api"
	"commsafe/internal/config"
	"commsafe/internal/database"
	"commsafe/internal/logger"
	"commsafe/internal/repository"
	"commsafe/internal/server"
	"commsafe/internal/service"
	"commsafe/internal/taxonomy"

	"go.uber.org/fx"
)

// The service layer depends on its own narrow interfaces; these adapters
// bind the concrete repositories and clients to them.
func ProvideVoteStore(r *repository.VoteRepository) service.VoteStore { return r }
func ProvideUserStore(r *repository.UserRepository) service.UserStore { return r }
func ProvideNotificationStore(r *repository.NotificationRepository) service.NotificationStore {
	return r
}
func ProvideSteamAPI(c *api.SteamClient) service.SteamAPI { return c }
func ProvideWebhookSender(c *api.DiscordClient) service.WebhookSender { return c }
func ProvideNotifier(s *service.NotificationService) service.Notifier { return s }

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(taxonomy.Default),
	// repos
	fx.Provide(repository.NewVoteRepository),
	fx.Provide(repository.NewUserRepository),
	fx.Provide(repository.NewNotificationRepository),
	fx.Provide(ProvideVoteStore),
	fx.Provide(ProvideUserStore),
	fx.Provide(ProvideNotificationStore),
	// api clients
	fx.Provide(api.NewSteamClient),
	fx.Provide(api.NewDiscordClient),
	fx.Provide(ProvideSteamAPI),
	fx.Provide(ProvideWebhookSender),
	// svc
	fx.Provide(service.NewReputationService),
	fx.Provide(service.NewNotificationService),
	fx.Provide(ProvideNotifier),
	fx.Provide(service.NewVoteService),
	fx.Provide(service.NewLeaderboardService),
	fx.Provide(service.NewUserService),
	fx.Provide(service.NewLookupService),
	// server
	fx.Provide(server.New),
)
