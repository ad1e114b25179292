package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/selection --output domain/selection --outpkg selectionmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/leaderboard --output domain/leaderboard --outpkg leaderboardmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/lockoverride --output domain/lockoverride --outpkg lockoverridemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/userprofile --output domain/userprofile --outpkg userprofilemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CacheRepository --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename cache_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CacheRepository --dir ../domain/squad --output domain/squad --outpkg squadmock --filename cache_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FixtureProvider --dir ../usecase --output usecase --outpkg usecasemock --filename fixture_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SquadProvider --dir ../usecase --output usecase --outpkg usecasemock --filename squad_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name JobQueue --dir ../usecase --output usecase --outpkg usecasemock --filename job_queue_mock.go
