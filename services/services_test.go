package services_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/team-manager/calories"
	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/storage"
	"github.com/Dosada05/team-manager/testutil"
	"github.com/Dosada05/team-manager/utils"
)

// flakyUploader wraps a real uploader and can be told to fail deletes.
type flakyUploader struct {
	storage.FileUploader
	failDelete bool
}

func (u *flakyUploader) Delete(ctx context.Context, key string) error {
	if u.failDelete {
		return errors.New("disk unavailable")
	}
	return u.FileUploader.Delete(ctx, key)
}

type publishedEvent struct {
	SportID int
	Event   string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) Publish(sportID int, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{SportID: sportID, Event: event})
}

type fixedPicker int

func (p fixedPicker) Intn(int) int { return int(p) }

type ServicesTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *sql.DB
	uploader *flakyUploader
	notifier *recordingNotifier

	playerRepo repositories.PlayerRepository
	recordRepo repositories.RecordRepository

	auth      services.AuthService
	sports    services.SportService
	players   services.PlayerService
	plans     services.PlanService
	records   services.RecordService
	foods     services.FoodService
	stats     services.StatsService
	dashboard services.DashboardService

	basketball models.Sport
	football   models.Sport
	user       *models.User
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func (s *ServicesTestSuite) SetupSuite() {
	utils.BcryptCost = bcrypt.MinCost
}

func (s *ServicesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewSQLite(s.T())
	logger := testutil.NopLogger()

	local, err := storage.NewLocalUploader(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)
	s.uploader = &flakyUploader{FileUploader: local}
	s.notifier = &recordingNotifier{}

	sportRepo := repositories.NewPostgresSportRepository(s.db)
	userRepo := repositories.NewPostgresUserRepository(s.db)
	s.playerRepo = repositories.NewPostgresPlayerRepository(s.db)
	planRepo := repositories.NewPostgresPlanRepository(s.db)
	s.recordRepo = repositories.NewPostgresRecordRepository(s.db)
	foodRepo := repositories.NewPostgresFoodRecordRepository(s.db)

	s.auth = services.NewAuthService(userRepo, logger)
	s.sports = services.NewSportService(sportRepo, logger)
	s.players = services.NewPlayerService(s.playerRepo, s.recordRepo, sportRepo, s.uploader, s.notifier, logger)
	s.plans = services.NewPlanService(planRepo, s.recordRepo, s.notifier, logger)
	s.records = services.NewRecordService(s.recordRepo, s.playerRepo, planRepo, s.notifier, logger)
	s.foods = services.NewFoodService(foodRepo, calories.NewRandomRecognizer(fixedPicker(0)), s.uploader, logger)
	s.stats = services.NewStatsService(sportRepo, s.playerRepo, planRepo, s.recordRepo, s.uploader)
	s.dashboard = services.NewDashboardService(sportRepo, s.playerRepo, planRepo, s.recordRepo, foodRepo, s.uploader)

	added, err := s.sports.SeedDefaults(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(len(models.DefaultSports), added)

	all, err := s.sports.GetAllSports(s.ctx, services.Scope{UserID: 1})
	s.Require().NoError(err)
	s.basketball, s.football = all[0], all[1]

	s.user, err = s.auth.Register(s.ctx, services.RegisterInput{
		Username: "coach", Email: "coach@example.com", Password: "secret", ConfirmPassword: "secret",
	})
	s.Require().NoError(err)
}

func (s *ServicesTestSuite) scope(sport models.Sport) services.Scope {
	return services.Scope{UserID: s.user.ID, SportID: sport.ID}
}

func (s *ServicesTestSuite) addPlayer(sport models.Sport, name string, number int) *models.Player {
	p, err := s.players.CreatePlayer(s.ctx, s.scope(sport), services.PlayerInput{
		Name: name, Number: number, Position: "Center", Age: 24, Height: 201, Weight: 98,
	})
	s.Require().NoError(err)
	return p
}

func (s *ServicesTestSuite) addRecord(sport models.Sport, playerID int, planID *int, score int) *models.TrainingRecord {
	r, err := s.records.CreateRecord(s.ctx, s.scope(sport), services.RecordInput{PlayerID: playerID, PlanID: planID, Score: score})
	s.Require().NoError(err)
	return r
}

func (s *ServicesTestSuite) avatar(name string) services.Upload {
	return services.Upload{Filename: name, Size: 4, Reader: strings.NewReader("data")}
}

func (s *ServicesTestSuite) fileExists(key string) bool {
	obj, err := s.uploader.Open(s.ctx, key)
	if err != nil {
		return false
	}
	_ = obj.Body.Close()
	return true
}

// --- auth & sports ---

func (s *ServicesTestSuite) TestRegisterValidation() {
	_, err := s.auth.Register(s.ctx, services.RegisterInput{Username: "a", Email: "a@example.com", Password: "x", ConfirmPassword: "y"})
	s.ErrorIs(err, services.ErrPasswordMismatch)
	s.ErrorIs(err, services.ErrInvalidInput)

	_, err = s.auth.Register(s.ctx, services.RegisterInput{Username: "coach", Email: "new@example.com", Password: "x", ConfirmPassword: "x"})
	s.ErrorIs(err, services.ErrUsernameTaken)

	_, err = s.auth.Register(s.ctx, services.RegisterInput{Username: "other", Email: "coach@example.com", Password: "x", ConfirmPassword: "x"})
	s.ErrorIs(err, services.ErrEmailTaken)

	_, err = s.auth.Register(s.ctx, services.RegisterInput{Username: "other", Email: "not-an-email", Password: "x", ConfirmPassword: "x"})
	s.ErrorIs(err, services.ErrInvalidInput)
}

func (s *ServicesTestSuite) TestLogin() {
	user, err := s.auth.Login(s.ctx, services.LoginInput{Username: "coach", Password: "secret"})
	s.Require().NoError(err)
	s.Equal(s.user.ID, user.ID)
	s.Empty(user.PasswordHash)

	_, err = s.auth.Login(s.ctx, services.LoginInput{Username: "coach", Password: "nope"})
	s.ErrorIs(err, services.ErrInvalidCredentials)

	_, err = s.auth.Login(s.ctx, services.LoginInput{Username: "ghost", Password: "secret"})
	s.ErrorIs(err, services.ErrInvalidCredentials)

	_, err = s.auth.GetUser(s.ctx, services.Scope{UserID: 9999})
	s.ErrorIs(err, services.ErrUnauthenticated)
}

func (s *ServicesTestSuite) TestSeedIsIdempotent() {
	added, err := s.sports.SeedDefaults(s.ctx)
	s.Require().NoError(err)
	s.Zero(added)

	all, err := s.sports.GetAllSports(s.ctx, services.Scope{UserID: s.user.ID})
	s.Require().NoError(err)
	s.Len(all, 8)
	s.Equal("Basketball", all[0].Name)
	s.NotEmpty(all[0].PositionList)
}

func (s *ServicesTestSuite) TestSelectSport() {
	_, err := s.sports.SelectSport(s.ctx, services.Scope{}, s.basketball.ID)
	s.ErrorIs(err, services.ErrUnauthenticated)

	_, err = s.sports.SelectSport(s.ctx, services.Scope{UserID: s.user.ID}, 999)
	s.ErrorIs(err, services.ErrNotFound)

	sport, err := s.sports.SelectSport(s.ctx, services.Scope{UserID: s.user.ID}, s.football.ID)
	s.Require().NoError(err)
	s.Equal("Football", sport.Name)
}

// --- players ---

func (s *ServicesTestSuite) TestPlayerRequiresActiveSport() {
	_, err := s.players.ListPlayers(s.ctx, services.Scope{UserID: s.user.ID})
	s.ErrorIs(err, services.ErrNoActiveSport)

	_, err = s.players.ListPlayers(s.ctx, services.Scope{})
	s.ErrorIs(err, services.ErrUnauthenticated)
}

func (s *ServicesTestSuite) TestPlayerValidation() {
	_, err := s.players.CreatePlayer(s.ctx, s.scope(s.basketball), services.PlayerInput{Name: " ", Position: "Center"})
	s.ErrorIs(err, services.ErrInvalidInput)

	_, err = s.players.CreatePlayer(s.ctx, s.scope(s.basketball), services.PlayerInput{Name: "X", Position: "Center", SportID: 999})
	s.ErrorIs(err, services.ErrInvalidInput)

	bad := "../../etc/passwd.png"
	_, err = s.players.CreatePlayer(s.ctx, s.scope(s.basketball), services.PlayerInput{Name: "X", Position: "Center", AvatarKey: &bad})
	s.ErrorIs(err, services.ErrInvalidInput)
}

func (s *ServicesTestSuite) TestPlayerAverageWithoutRecords() {
	s.addPlayer(s.basketball, "Rookie", 1)

	list, err := s.players.ListPlayers(s.ctx, s.scope(s.basketball))
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(0.0, list[0].AverageScore)
	s.Zero(list[0].TrainingCount)
}

func (s *ServicesTestSuite) TestPlayerDetailAverage() {
	p := s.addPlayer(s.basketball, "Veteran", 9)
	for _, score := range []int{7, 8, 8} {
		s.addRecord(s.basketball, p.ID, nil, score)
	}

	detail, err := s.players.GetPlayer(s.ctx, s.scope(s.basketball), p.ID)
	s.Require().NoError(err)
	s.Equal(7.7, detail.AverageScore)
	s.Equal(3, detail.TrainingCount)
	s.Len(detail.Records, 3)
}

func (s *ServicesTestSuite) TestCrossSportPlayerAccessIsForbidden() {
	p := s.addPlayer(s.basketball, "Home", 5)
	other := s.scope(s.football)

	_, err := s.players.GetPlayer(s.ctx, other, p.ID)
	s.ErrorIs(err, services.ErrForbidden)

	_, err = s.players.UpdatePlayer(s.ctx, other, p.ID, services.PlayerInput{Name: "Hacked", Position: "Center"})
	s.ErrorIs(err, services.ErrForbidden)

	err = s.players.DeletePlayer(s.ctx, other, p.ID)
	s.ErrorIs(err, services.ErrForbidden)

	_, err = s.records.CreateRecord(s.ctx, other, services.RecordInput{PlayerID: p.ID, Score: 5})
	s.ErrorIs(err, services.ErrForbidden)

	stored, err := s.playerRepo.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Home", stored.Name)
}

func (s *ServicesTestSuite) TestPlayerDeleteRemovesRecordsAndAvatar() {
	scope := s.scope(s.basketball)

	up, err := s.players.UploadAvatar(s.ctx, scope, s.avatar("a.png"))
	s.Require().NoError(err)
	s.Equal("/uploads/"+up.Key, up.URL)
	doomed, err := s.players.CreatePlayer(s.ctx, scope, services.PlayerInput{Name: "Doomed", Number: 1, Position: "Center", AvatarKey: &up.Key})
	s.Require().NoError(err)
	s.Require().NotNil(doomed.AvatarURL)

	up2, err := s.players.UploadAvatar(s.ctx, scope, s.avatar("b.jpg"))
	s.Require().NoError(err)
	keeper, err := s.players.CreatePlayer(s.ctx, scope, services.PlayerInput{Name: "Keeper", Number: 2, Position: "Center", AvatarKey: &up2.Key})
	s.Require().NoError(err)

	s.addRecord(s.basketball, doomed.ID, nil, 5)
	s.addRecord(s.basketball, doomed.ID, nil, 6)
	s.addRecord(s.basketball, keeper.ID, nil, 9)

	s.Require().NoError(s.players.DeletePlayer(s.ctx, scope, doomed.ID))

	s.False(s.fileExists(up.Key))
	s.True(s.fileExists(up2.Key))

	records, err := s.records.ListRecords(s.ctx, scope)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(keeper.ID, records[0].PlayerID)

	_, err = s.players.GetPlayer(s.ctx, scope, doomed.ID)
	s.ErrorIs(err, services.ErrNotFound)
}

func (s *ServicesTestSuite) TestAvatarOfAnotherSportCannotBeReused() {
	football := s.scope(s.football)
	up, err := s.players.UploadAvatar(s.ctx, football, s.avatar("a.png"))
	s.Require().NoError(err)
	s.True(strings.HasPrefix(up.Key, storage.PlayerAvatarKeyPrefix(s.football.ID)))
	owner, err := s.players.CreatePlayer(s.ctx, football, services.PlayerInput{Name: "Owner", Number: 9, Position: "Forward", AvatarKey: &up.Key})
	s.Require().NoError(err)

	basketball := s.scope(s.basketball)
	_, err = s.players.CreatePlayer(s.ctx, basketball, services.PlayerInput{Name: "Copycat", Number: 1, Position: "Center", AvatarKey: &up.Key})
	s.ErrorIs(err, services.ErrInvalidInput)

	other := s.addPlayer(s.basketball, "Other", 2)
	_, err = s.players.UpdatePlayer(s.ctx, basketball, other.ID, services.PlayerInput{Name: "Other", Number: 2, Position: "Center", AvatarKey: &up.Key})
	s.ErrorIs(err, services.ErrInvalidInput)
	s.Require().NoError(s.players.DeletePlayer(s.ctx, basketball, other.ID))

	got, err := s.players.GetPlayer(s.ctx, football, owner.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.AvatarKey)
	s.Equal(up.Key, *got.AvatarKey)
	s.True(s.fileExists(up.Key))
}

func (s *ServicesTestSuite) TestAvatarBelongsToOnePlayer() {
	scope := s.scope(s.basketball)
	up, err := s.players.UploadAvatar(s.ctx, scope, s.avatar("a.png"))
	s.Require().NoError(err)
	first, err := s.players.CreatePlayer(s.ctx, scope, services.PlayerInput{Name: "First", Number: 1, Position: "Center", AvatarKey: &up.Key})
	s.Require().NoError(err)

	_, err = s.players.CreatePlayer(s.ctx, scope, services.PlayerInput{Name: "Second", Number: 2, Position: "Center", AvatarKey: &up.Key})
	s.ErrorIs(err, services.ErrAvatarInUse)

	second := s.addPlayer(s.basketball, "Second", 2)
	_, err = s.players.UpdatePlayer(s.ctx, scope, second.ID, services.PlayerInput{Name: "Second", Number: 2, Position: "Center", AvatarKey: &up.Key})
	s.ErrorIs(err, services.ErrAvatarInUse)

	// повторное сохранение того же ключа у владельца допустимо
	_, err = s.players.UpdatePlayer(s.ctx, scope, first.ID, services.PlayerInput{Name: "First!", Number: 1, Position: "Center", AvatarKey: &up.Key})
	s.NoError(err)
}

func (s *ServicesTestSuite) TestPlayerWithoutAvatarGetsSportImage() {
	p := s.addPlayer(s.football, "Plain", 5)
	detail, err := s.players.GetPlayer(s.ctx, s.scope(s.football), p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(detail.AvatarURL)
	s.Equal(s.football.Images.DefaultAvatar(p.ID), *detail.AvatarURL)
	s.True(strings.HasPrefix(*detail.AvatarURL, "/images/football_star"))

	list, err := s.players.ListPlayers(s.ctx, s.scope(s.football))
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(detail.AvatarURL, list[0].AvatarURL)
}

func (s *ServicesTestSuite) TestPlayerDeleteKeepsRowWhenAvatarRemovalFails() {
	scope := s.scope(s.basketball)
	up, err := s.players.UploadAvatar(s.ctx, scope, s.avatar("a.png"))
	s.Require().NoError(err)
	p, err := s.players.CreatePlayer(s.ctx, scope, services.PlayerInput{Name: "Sticky", Number: 3, Position: "Center", AvatarKey: &up.Key})
	s.Require().NoError(err)

	s.uploader.failDelete = true
	err = s.players.DeletePlayer(s.ctx, scope, p.ID)
	s.ErrorIs(err, services.ErrStorageFailure)

	_, err = s.playerRepo.GetByID(s.ctx, p.ID)
	s.NoError(err)
}

func (s *ServicesTestSuite) TestReplaceAvatarDeletesOldFile() {
	scope := s.scope(s.basketball)
	up, err := s.players.UploadAvatar(s.ctx, scope, s.avatar("a.png"))
	s.Require().NoError(err)
	p, err := s.players.CreatePlayer(s.ctx, scope, services.PlayerInput{Name: "Vain", Number: 4, Position: "Center", AvatarKey: &up.Key})
	s.Require().NoError(err)

	updated, err := s.players.ReplaceAvatar(s.ctx, scope, p.ID, s.avatar("new.gif"))
	s.Require().NoError(err)
	s.Require().NotNil(updated.AvatarKey)
	s.NotEqual(up.Key, *updated.AvatarKey)
	s.True(strings.HasSuffix(*updated.AvatarKey, ".gif"))
	s.False(s.fileExists(up.Key))
	s.True(s.fileExists(*updated.AvatarKey))

	_, err = s.players.ReplaceAvatar(s.ctx, scope, p.ID, s.avatar("virus.exe"))
	s.ErrorIs(err, services.ErrInvalidInput)
	s.ErrorIs(err, storage.ErrUnsupportedFileType)
}

func (s *ServicesTestSuite) TestPlayerUpdateCanMoveSport() {
	p := s.addPlayer(s.basketball, "Switcher", 8)

	moved, err := s.players.UpdatePlayer(s.ctx, s.scope(s.basketball), p.ID, services.PlayerInput{
		Name: "Switcher", Number: 8, Position: "Forward", SportID: s.football.ID,
	})
	s.Require().NoError(err)
	s.Equal(s.football.ID, moved.SportID)

	_, err = s.players.GetPlayer(s.ctx, s.scope(s.basketball), p.ID)
	s.ErrorIs(err, services.ErrForbidden)
}

// --- plans & records ---

func (s *ServicesTestSuite) TestPlanDeleteCascadesOnlyItsRecords() {
	scope := s.scope(s.basketball)
	p := s.addPlayer(s.basketball, "Shooter", 30)
	plan, err := s.plans.CreatePlan(s.ctx, scope, services.PlanInput{Title: "Free throws", PlanDate: "2024-04-02"})
	s.Require().NoError(err)

	s.addRecord(s.basketball, p.ID, &plan.ID, 8)
	loose := s.addRecord(s.basketball, p.ID, nil, 6)

	detail, err := s.plans.GetPlan(s.ctx, scope, plan.ID)
	s.Require().NoError(err)
	s.Len(detail.Records, 1)
	s.Equal("Shooter", detail.Records[0].PlayerName)

	s.Require().NoError(s.plans.DeletePlan(s.ctx, scope, plan.ID))

	records, err := s.records.ListRecords(s.ctx, scope)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(loose.ID, records[0].ID)
}

func (s *ServicesTestSuite) TestPlanValidationAndScope() {
	scope := s.scope(s.basketball)
	_, err := s.plans.CreatePlan(s.ctx, scope, services.PlanInput{Title: "Bad date", PlanDate: "02/04/2024"})
	s.ErrorIs(err, services.ErrInvalidPlanDate)

	_, err = s.plans.CreatePlan(s.ctx, scope, services.PlanInput{Title: "", PlanDate: "2024-04-02"})
	s.ErrorIs(err, services.ErrInvalidInput)

	plan, err := s.plans.CreatePlan(s.ctx, scope, services.PlanInput{Title: "Drills", PlanDate: "2024-04-02"})
	s.Require().NoError(err)

	_, err = s.plans.UpdatePlan(s.ctx, s.scope(s.football), plan.ID, services.PlanInput{Title: "Mine", PlanDate: "2024-04-03"})
	s.ErrorIs(err, services.ErrForbidden)

	updated, err := s.plans.UpdatePlan(s.ctx, scope, plan.ID, services.PlanInput{Title: "Drills v2", Content: "more", PlanDate: "2024-05-01"})
	s.Require().NoError(err)
	s.Equal("Drills v2", updated.Title)
	s.Equal("2024-05-01", updated.PlanDate.Format("2006-01-02"))
}

func (s *ServicesTestSuite) TestRecordPlanMustBelongToActiveSport() {
	p := s.addPlayer(s.basketball, "Guard", 1)
	foreignPlan, err := s.plans.CreatePlan(s.ctx, s.scope(s.football), services.PlanInput{Title: "Other", PlanDate: "2024-01-01"})
	s.Require().NoError(err)

	_, err = s.records.CreateRecord(s.ctx, s.scope(s.basketball), services.RecordInput{PlayerID: p.ID, PlanID: &foreignPlan.ID, Score: 7})
	s.ErrorIs(err, services.ErrForbidden)

	missing := 4242
	_, err = s.records.CreateRecord(s.ctx, s.scope(s.basketball), services.RecordInput{PlayerID: p.ID, PlanID: &missing, Score: 7})
	s.ErrorIs(err, services.ErrNotFound)

	_, err = s.records.CreateRecord(s.ctx, s.scope(s.basketball), services.RecordInput{PlayerID: 4242, Score: 7})
	s.ErrorIs(err, services.ErrPlayerNotFound)
}

func (s *ServicesTestSuite) TestRecordDeleteScope() {
	p := s.addPlayer(s.basketball, "Guard", 1)
	r := s.addRecord(s.basketball, p.ID, nil, 7)

	err := s.records.DeleteRecord(s.ctx, s.scope(s.football), r.ID)
	s.ErrorIs(err, services.ErrForbidden)

	s.Require().NoError(s.records.DeleteRecord(s.ctx, s.scope(s.basketball), r.ID))
	s.ErrorIs(s.records.DeleteRecord(s.ctx, s.scope(s.basketball), r.ID), services.ErrRecordNotFound)
}

func (s *ServicesTestSuite) TestEventsArePublishedPerSport() {
	p := s.addPlayer(s.basketball, "Loud", 1)
	s.addRecord(s.basketball, p.ID, nil, 7)

	s.notifier.mu.Lock()
	defer s.notifier.mu.Unlock()
	s.Equal([]publishedEvent{
		{SportID: s.basketball.ID, Event: services.EventPlayerCreated},
		{SportID: s.basketball.ID, Event: services.EventRecordCreated},
	}, s.notifier.events)
}

// --- stats & dashboard ---

func (s *ServicesTestSuite) TestStats() {
	scope := s.scope(s.basketball)
	a := s.addPlayer(s.basketball, "A", 1)
	b := s.addPlayer(s.basketball, "B", 2)
	s.addPlayer(s.basketball, "C", 3)
	for _, score := range []int{1, 1, 10, 11, 0} {
		s.addRecord(s.basketball, a.ID, nil, score)
	}
	s.addRecord(s.basketball, b.ID, nil, 5)
	_, err := s.plans.CreatePlan(s.ctx, scope, services.PlanInput{Title: "P1", PlanDate: "2024-03-01"})
	s.Require().NoError(err)
	_, err = s.plans.CreatePlan(s.ctx, scope, services.PlanInput{Title: "P2", PlanDate: "2024-03-20"})
	s.Require().NoError(err)

	stats, err := s.stats.GetStats(s.ctx, scope)
	s.Require().NoError(err)

	s.Equal(2, stats.ScoreCounts[1])
	s.Equal(1, stats.ScoreCounts[5])
	s.Equal(1, stats.ScoreCounts[10])
	s.Equal(map[string]int{"Center": 3}, stats.PositionCounts)
	s.Equal(map[string]int{"2024-03": 2}, stats.MonthlyPlans)
	s.Require().Len(stats.Ranking, 2)
	s.Equal(b.ID, stats.Ranking[0].ID)
	s.Equal(4.6, stats.Ranking[1].AverageScore)
}

func (s *ServicesTestSuite) TestDashboardAndHome() {
	scope := s.scope(s.basketball)
	p := s.addPlayer(s.basketball, "A", 1)
	s.addRecord(s.basketball, p.ID, nil, 6)
	s.addRecord(s.basketball, p.ID, nil, 9)
	// оценка 0 считается записью без оценки
	s.addRecord(s.basketball, p.ID, nil, 0)
	other := s.addPlayer(s.football, "F", 1)
	s.addRecord(s.football, other.ID, nil, 1)
	_, err := s.foods.SaveRecord(s.ctx, scope, services.SaveFoodInput{FoodName: "苹果", Weight: 150})
	s.Require().NoError(err)

	stats, err := s.dashboard.GetStats(s.ctx, scope)
	s.Require().NoError(err)
	s.Equal(models.DashboardStats{PlayersTotal: 1, PlansTotal: 0, RecordsTotal: 3, FoodRecordsTotal: 1, AverageScore: 7.5}, stats)

	home, err := s.dashboard.GetHome(s.ctx, scope)
	s.Require().NoError(err)
	s.Equal("Basketball", home.Sport.Name)
	s.Equal("/images/basketball_top_bg.jpg", home.Sport.Images.Background)
	s.Len(home.LatestRecords, 3)
	s.Require().Len(home.LatestPlayers, 1)
	s.Require().NotNil(home.LatestPlayers[0].AvatarURL)
	s.Contains(home.Sport.Images.Stars, *home.LatestPlayers[0].AvatarURL)
	s.Empty(home.LatestPlans)
	s.Len(home.LatestFoods, 1)

	_, err = s.dashboard.GetHome(s.ctx, services.Scope{UserID: s.user.ID})
	s.ErrorIs(err, services.ErrNoActiveSport)
}

// --- food ---

func (s *ServicesTestSuite) TestCalculate() {
	scope := s.scope(s.basketball)

	res, err := s.foods.Calculate(s.ctx, scope, services.CalculateInput{FoodName: "苹果", Weight: 200})
	s.Require().NoError(err)
	s.InDelta(104.0, res.Calories, 1e-9)
	s.Equal(52.0, res.Per100g)

	res, err = s.foods.Calculate(s.ctx, scope, services.CalculateInput{FoodName: "unknown dish", Weight: 50})
	s.Require().NoError(err)
	s.InDelta(50.0, res.Calories, 1e-9)

	for _, w := range []float64{0, -5} {
		_, err = s.foods.Calculate(s.ctx, scope, services.CalculateInput{FoodName: "苹果", Weight: w})
		s.ErrorIs(err, services.ErrInvalidInput)
	}
}

func (s *ServicesTestSuite) TestRecognizeAndSave() {
	scope := s.scope(s.basketball)

	rec, err := s.foods.Recognize(s.ctx, scope, services.Upload{Filename: "lunch.JPG", Size: 4, Reader: strings.NewReader("jpeg")})
	s.Require().NoError(err)
	s.True(calories.Known(rec.FoodName))
	s.Equal(calories.StubWeightGrams, rec.Weight)
	s.True(strings.HasPrefix(rec.ImageKey, "foods/food_"))
	s.True(s.fileExists(rec.ImageKey))

	saved, err := s.foods.SaveRecord(s.ctx, scope, services.SaveFoodInput{FoodName: rec.FoodName, Weight: 200, ImageKey: &rec.ImageKey})
	s.Require().NoError(err)
	s.InDelta(calories.Lookup(rec.FoodName)*2, saved.Calories, 1e-9)
	s.Require().NotNil(saved.ImageURL)

	list, err := s.foods.ListRecords(s.ctx, scope)
	s.Require().NoError(err)
	s.Require().Len(list, 1)

	_, err = s.foods.SaveRecord(s.ctx, scope, services.SaveFoodInput{FoodName: rec.FoodName, Weight: 50, ImageKey: &rec.ImageKey})
	s.ErrorIs(err, services.ErrImageInUse)
	list, err = s.foods.ListRecords(s.ctx, scope)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.foods.DeleteRecord(s.ctx, scope, saved.ID))
	s.False(s.fileExists(rec.ImageKey))
}

func (s *ServicesTestSuite) TestFoodRecordsAreOwnedByUser() {
	scope := s.scope(s.basketball)
	saved, err := s.foods.SaveRecord(s.ctx, scope, services.SaveFoodInput{FoodName: "香蕉", Weight: 100})
	s.Require().NoError(err)

	intruder, err := s.auth.Register(s.ctx, services.RegisterInput{Username: "intruder", Email: "i@example.com", Password: "p", ConfirmPassword: "p"})
	s.Require().NoError(err)
	intruderScope := services.Scope{UserID: intruder.ID, SportID: s.basketball.ID}

	err = s.foods.DeleteRecord(s.ctx, intruderScope, saved.ID)
	s.ErrorIs(err, services.ErrForbidden)

	list, err := s.foods.ListRecords(s.ctx, intruderScope)
	s.Require().NoError(err)
	s.Empty(list)

	foreignKey := "foods/food_" + "999_x.png"
	_, err = s.foods.SaveRecord(s.ctx, intruderScope, services.SaveFoodInput{FoodName: "香蕉", Weight: 100, ImageKey: &foreignKey})
	s.ErrorIs(err, services.ErrInvalidInput)
}

func (s *ServicesTestSuite) TestRecognizeRejectsBadFiles() {
	scope := s.scope(s.basketball)

	_, err := s.foods.Recognize(s.ctx, scope, services.Upload{Filename: "notes.txt", Size: 4, Reader: strings.NewReader("text")})
	s.ErrorIs(err, services.ErrInvalidInput)

	_, err = s.foods.Recognize(s.ctx, scope, services.Upload{Filename: "big.png", Size: storage.MaxImageSize + 1, Reader: io.LimitReader(strings.NewReader(""), 0)})
	s.ErrorIs(err, storage.ErrFileTooLarge)

	_, err = s.foods.Recognize(s.ctx, scope, services.Upload{})
	s.ErrorIs(err, services.ErrImageRequired)
}

// --- files ---

func (s *ServicesTestSuite) TestOpenFile() {
	files := services.NewFileService(s.uploader, nil)
	scope := s.scope(s.basketball)

	up, err := s.players.UploadAvatar(s.ctx, scope, s.avatar("a.png"))
	s.Require().NoError(err)

	obj, err := files.OpenFile(s.ctx, scope, up.Key)
	s.Require().NoError(err)
	data, err := io.ReadAll(obj.Body)
	s.Require().NoError(obj.Body.Close())
	s.Require().NoError(err)
	s.Equal("data", string(data))
	s.Equal("image/png", obj.ContentType)

	_, err = files.OpenFile(s.ctx, services.Scope{UserID: s.user.ID}, up.Key)
	s.ErrorIs(err, services.ErrNoActiveSport)

	_, err = files.OpenFile(s.ctx, scope, "players/missing.png")
	s.ErrorIs(err, services.ErrNotFound)

	_, err = files.OpenFile(s.ctx, scope, "../secret.png")
	s.ErrorIs(err, services.ErrFileNotFound)
}

func (s *ServicesTestSuite) TestOpenImage() {
	images, err := storage.NewLocalUploader(s.T().TempDir(), "/images")
	s.Require().NoError(err)
	_, err = images.Upload(s.ctx, "football_star1.jpg", "image/jpeg", strings.NewReader("star"))
	s.Require().NoError(err)
	_, err = images.Upload(s.ctx, "readme.txt", "text/plain", strings.NewReader("text"))
	s.Require().NoError(err)
	files := services.NewFileService(s.uploader, images)

	obj, err := files.OpenImage(s.ctx, "football_star1.jpg")
	s.Require().NoError(err)
	data, err := io.ReadAll(obj.Body)
	s.Require().NoError(obj.Body.Close())
	s.Require().NoError(err)
	s.Equal("star", string(data))
	s.Equal("image/jpeg", obj.ContentType)

	_, err = files.OpenImage(s.ctx, "readme.txt")
	s.ErrorIs(err, services.ErrForbidden)

	_, err = files.OpenImage(s.ctx, "golf_star1.jpg")
	s.ErrorIs(err, services.ErrNotFound)

	_, err = files.OpenImage(s.ctx, "../players/x.png")
	s.ErrorIs(err, services.ErrNotFound)

	_, err = services.NewFileService(s.uploader, nil).OpenImage(s.ctx, "football_star1.jpg")
	s.ErrorIs(err, services.ErrNotFound)
}
