package models

type UserRole string
type GameSystem string
type Platform string
type Difficulty string
type Language string
type BookingStatus string

const (
	UserRolePlayer UserRole = "player"
	UserRoleGM     UserRole = "gm"
	UserRoleAdmin  UserRole = "admin"

	GameSystemDND5E         GameSystem = "DND5E"
	GameSystemPathfinder2E  GameSystem = "PATHFINDER2E"
	GameSystemCallOfCthulhu GameSystem = "CALL_OF_CTHULHU"
	GameSystemVampire       GameSystem = "VAMPIRE"
	GameSystemShadowrun     GameSystem = "SHADOWRUN"
	GameSystemCyberpunk     GameSystem = "CYBERPUNK"
	GameSystemWarhammer40K  GameSystem = "WARHAMMER40K"
	GameSystemOther         GameSystem = "OTHER"

	PlatformRoll20   Platform = "ROLL20"
	PlatformFoundry  Platform = "FOUNDRY"
	PlatformDiscord  Platform = "DISCORD"
	PlatformZoom     Platform = "ZOOM"
	PlatformTelegram Platform = "TELEGRAM"
	PlatformInPerson Platform = "IN_PERSON"
	PlatformOther    Platform = "OTHER"

	DifficultyBeginnerFriendly Difficulty = "BEGINNER_FRIENDLY"
	DifficultyIntermediate     Difficulty = "INTERMEDIATE"
	DifficultyAdvanced         Difficulty = "ADVANCED"
	DifficultyExpertOnly       Difficulty = "EXPERT_ONLY"

	LanguageEN Language = "EN"
	LanguageRU Language = "RU"
	LanguageKK Language = "KK"

	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

var gameSystems = map[GameSystem]bool{
	GameSystemDND5E: true, GameSystemPathfinder2E: true, GameSystemCallOfCthulhu: true,
	GameSystemVampire: true, GameSystemShadowrun: true, GameSystemCyberpunk: true,
	GameSystemWarhammer40K: true, GameSystemOther: true,
}

var difficulties = map[Difficulty]bool{
	DifficultyBeginnerFriendly: true, DifficultyIntermediate: true,
	DifficultyAdvanced: true, DifficultyExpertOnly: true,
}

var languages = map[Language]bool{
	LanguageEN: true, LanguageRU: true, LanguageKK: true,
}

// IsValidGameSystem проверяет принадлежность к закрытому перечислению.
// Неизвестное значение фильтра трактуется каталогом как "ничего не найдено",
// а не как ошибка - клиент со старым справочником получит пустую выдачу.
func IsValidGameSystem(s GameSystem) bool { return gameSystems[s] }

func IsValidDifficulty(d Difficulty) bool { return difficulties[d] }

func IsValidLanguage(l Language) bool { return languages[l] }
