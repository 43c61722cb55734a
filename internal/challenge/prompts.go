package challenge

import (
	"fmt"

	"github.com/truthortrap/trap-server-go/internal/game"
)

// Setting tunes generated challenges to where the group is playing.
type Setting string

const (
	SettingPrivate Setting = "private"
	SettingPublic  Setting = "public"
)

// Valid reports whether s is a known setting.
func (s Setting) Valid() bool {
	return s == SettingPrivate || s == SettingPublic
}

type promptKey struct {
	lang    game.Language
	setting Setting
	typ     game.ChallengeType
}

var basePrompts = map[promptKey]string{
	{game.LanguageEN, SettingPrivate, game.ChallengeTruth}: "Generate a personal or funny 'Truth' question for close friends playing indoors. Be creative!",
	{game.LanguageEN, SettingPrivate, game.ChallengeDare}:  "Generate a fun, slightly embarrassing 'Dare' for someone in a private home setting. Keep it safe.",
	{game.LanguageEN, SettingPublic, game.ChallengeTruth}:  "Generate a 'Truth' question suitable for a public setting, perhaps about public observations or general opinions.",
	{game.LanguageEN, SettingPublic, game.ChallengeDare}:   "Generate a 'Dare' that is performative but safe to do in a public space like a park or cafe in Malaysia. Involve mild, funny public interaction.",

	{game.LanguageCN, SettingPrivate, game.ChallengeTruth}: "为在室内玩耍的亲密朋友生成一个个人或有趣‘真心话’问题。要有创意！",
	{game.LanguageCN, SettingPrivate, game.ChallengeDare}:  "在私人家庭环境中，为某人生成一个有趣、略带尴尬的‘大冒险’。注意安全。",
	{game.LanguageCN, SettingPublic, game.ChallengeTruth}:  "生成一个适合公共场合的‘真心话’问题，可以关于公共观察或普遍看法。",
	{game.LanguageCN, SettingPublic, game.ChallengeDare}:   "生成一个在马来西亚公园或咖啡馆等公共场所既有表演性又安全的‘大冒险’。包含温和、有趣的公众互动。",

	{game.LanguageMY, SettingPrivate, game.ChallengeTruth}: "Jana soalan 'Jujur' yang peribadi atau lucu untuk kawan rapat yang bermain di dalam rumah. Jadilah kreatif!",
	{game.LanguageMY, SettingPrivate, game.ChallengeDare}:  "Jana 'Cabaran' yang seronok dan sedikit memalukan untuk seseorang dalam suasana rumah persendirian. Pastikan ia selamat.",
	{game.LanguageMY, SettingPublic, game.ChallengeTruth}:  "Jana soalan 'Jujur' yang sesuai untuk suasana awam, mungkin mengenai pemerhatian awam atau pendapat umum.",
	{game.LanguageMY, SettingPublic, game.ChallengeDare}:   "Jana 'Cabaran' yang performatif tetapi selamat untuk dilakukan di tempat awam seperti taman atau kafe di Malaysia. Libatkan interaksi awam yang ringan dan lucu.",
}

type difficultyKey struct {
	lang game.Language
	diff game.Difficulty
}

var difficultyPrompts = map[difficultyKey]string{
	{game.LanguageEN, game.DifficultySimple}:  " The challenge should be lighthearted, easy, and quick to perform. Avoid anything too personal or embarrassing.",
	{game.LanguageEN, game.DifficultyNormal}:  " The challenge should be a standard, fun party game task. A good balance of fun and challenge.",
	{game.LanguageEN, game.DifficultyExtreme}: " The challenge should be very difficult, revealing, or daring. Push the player's limits. Be extreme but still safe.",

	{game.LanguageCN, game.DifficultySimple}:  " 挑战应该是轻松、简单、快速的。避免过于私人或令人尴尬的内容。",
	{game.LanguageCN, game.DifficultyNormal}:  " 挑战应该是标准的、有趣的派对游戏任务。在乐趣和挑战之间取得良好平衡。",
	{game.LanguageCN, game.DifficultyExtreme}: " 挑战应该非常困难、具有揭示性或大胆。挑战玩家的极限。要极端但仍需注意安全。",

	{game.LanguageMY, game.DifficultySimple}:  " Cabaran hendaklah ringan, mudah, dan cepat untuk dilakukan. Elakkan apa-apa yang terlalu peribadi atau memalukan.",
	{game.LanguageMY, game.DifficultyNormal}:  " Cabaran hendaklah menjadi tugas permainan parti yang standard dan menyeronokkan. Keseimbangan yang baik antara keseronokan dan cabaran.",
	{game.LanguageMY, game.DifficultyExtreme}: " Cabaran hendaklah sangat sukar, mendedahkan, atau berani. Tolak had pemain. Jadilah ekstrem tetapi masih selamat.",
}

const (
	intensifiedAddendum  = " Make the challenge significantly harder and more personal. This could be because they lost a duel or used a special card."
	stealFailureAddendum = " This player just failed an attempt to steal a card from someone else. Generate a punishing but funny 'Dare' as a consequence for their failure."
)

// Prompt builds the generation prompt for a request.
func Prompt(req Request, setting Setting) string {
	if !setting.Valid() {
		setting = SettingPrivate
	}
	prompt := basePrompts[promptKey{req.Language, setting, req.Type}]
	prompt += difficultyPrompts[difficultyKey{req.Language, req.Difficulty}]
	if req.Intensified {
		prompt += intensifiedAddendum
	}
	if req.StealFailure {
		prompt += stealFailureAddendum
	}
	return prompt
}

// SystemInstruction names the game and pins the response language.
func SystemInstruction(lang game.Language) string {
	return fmt.Sprintf("You are 'Truth or Trap', a party game AI. Your response must be in %s.", lang.DisplayName())
}
