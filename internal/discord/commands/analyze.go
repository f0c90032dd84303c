// Package commands implements the Protokollo slash commands and the source
// intake handler: /analyze, /rerender, /status, /help, the report language
// keyboard, and the message handler that queues uploaded recordings and
// pasted links.
package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/protokollo/protokollo/internal/discord"
	"github.com/protokollo/protokollo/internal/pipeline"
	"github.com/protokollo/protokollo/internal/session"
)

// langComponentPrefix namespaces the language keyboard button custom IDs.
// Full format: "lang:<action>:<code>", e.g. "lang:analyze:ru".
const langComponentPrefix = "lang:"

// Runner executes analysis runs. Satisfied by *pipeline.Runner.
type Runner interface {
	Run(ctx context.Context, sess *session.Session, lang string, progress pipeline.ProgressFunc) (*pipeline.Outcome, error)
	Rerender(ctx context.Context, sess *session.Session, lang string, progress pipeline.ProgressFunc) (*pipeline.Outcome, error)
}

// Metrics receives intake and delivery telemetry. May be nil.
type Metrics interface {
	RecordReportDelivered(ctx context.Context, language string)
	RecordSourcesQueued(ctx context.Context, n int)
}

// messenger is the subset of the discordgo session used for channel
// messages. Satisfied by *discordgo.Session; tests substitute a recording
// double.
type messenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Commands wires the analysis workflow to Discord interactions.
type Commands struct {
	store       *session.Store
	runner      Runner
	metrics     Metrics
	defaultLang string
	log         *slog.Logger
}

// Config holds dependencies for creating Commands.
type Config struct {
	Bot    *discord.Bot
	Store  *session.Store
	Runner Runner

	// DefaultLanguage is the report language used when a run starts without
	// an explicit choice. Empty means "original".
	DefaultLanguage string

	Metrics Metrics // optional
	Log     *slog.Logger
}

// New creates the Commands set and registers all handlers with the bot's
// router and message pipeline.
func New(cfg Config) (*Commands, error) {
	if cfg.Bot == nil || cfg.Store == nil || cfg.Runner == nil {
		return nil, fmt.Errorf("commands: bot, store, and runner are required")
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	c := &Commands{
		store:       cfg.Store,
		runner:      cfg.Runner,
		metrics:     cfg.Metrics,
		defaultLang: cfg.DefaultLanguage,
		log:         log,
	}
	c.register(cfg.Bot.Router())
	cfg.Bot.OnMessage(c.HandleMessage)
	return c, nil
}

func (c *Commands) register(router *discord.CommandRouter) {
	langOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "language",
		Description: "Report language",
	}
	for _, lc := range languageChoices {
		langOption.Choices = append(langOption.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  lc.Label,
			Value: lc.Code,
		})
	}

	router.RegisterCommand(&discordgo.ApplicationCommand{
		Name:        "analyze",
		Description: "Analyze the queued recordings and links into a meeting report",
		Options:     []*discordgo.ApplicationCommandOption{langOption},
	}, c.handleAnalyze)

	router.RegisterCommand(&discordgo.ApplicationCommand{
		Name:        "rerender",
		Description: "Rebuild the last report in another language without re-transcribing",
		Options:     []*discordgo.ApplicationCommandOption{langOption},
	}, c.handleRerender)

	router.RegisterCommand(&discordgo.ApplicationCommand{
		Name:        "status",
		Description: "Show queued sources and run state for this channel",
	}, c.handleStatus)

	router.RegisterCommand(&discordgo.ApplicationCommand{
		Name:        "help",
		Description: "How to use Protokollo",
	}, c.handleHelp)

	router.RegisterComponentPrefix(langComponentPrefix, c.handleLanguageButton)
}

func (c *Commands) handleAnalyze(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := optionString(i, "language")
	if lang == "" {
		discord.RespondButtons(s, i, "🌍 Pick a report language:", languageKeyboard("analyze"))
		return
	}
	discord.RespondEphemeral(s, i, "🚀 Starting analysis ("+languageLabel(lang)+").")
	go c.execute(s, i.ChannelID, lang, false)
}

func (c *Commands) handleRerender(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sess := c.store.GetOrCreate(i.ChannelID)
	if !sess.HasCache() {
		discord.RespondEphemeral(s, i, userErrorMessage(session.ErrNoCache))
		return
	}
	lang := optionString(i, "language")
	if lang == "" {
		discord.RespondButtons(s, i, "🌍 Pick a report language:", languageKeyboard("rerender"))
		return
	}
	discord.RespondEphemeral(s, i, "🚀 Re-rendering ("+languageLabel(lang)+").")
	go c.execute(s, i.ChannelID, lang, true)
}

// handleLanguageButton resolves a keyboard choice. Custom ID format:
// "lang:<action>:<code>".
func (c *Commands) handleLanguageButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 {
		discord.RespondEphemeral(s, i, "Unknown component.")
		return
	}
	action, lang := parts[1], parts[2]

	rerender := action == "rerender"
	verb := "Starting analysis"
	if rerender {
		verb = "Re-rendering"
	}
	discord.UpdateMessage(s, i, fmt.Sprintf("🚀 %s (%s).", verb, languageLabel(lang)))
	go c.execute(s, i.ChannelID, lang, rerender)
}

func (c *Commands) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sess := c.store.GetOrCreate(i.ChannelID)
	files, links := sess.PendingCounts()
	discord.RespondEphemeral(s, i, channelStatus(files, links, sess.Processing(), sess.HasCache()))
}

func (c *Commands) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	discord.RespondEphemeral(s, i, helpText)
}

// execute drives one run or re-render to completion and delivers the result
// to the channel. It runs on its own goroutine; all user-visible failures
// end up as channel messages, never as lost errors.
func (c *Commands) execute(m messenger, channelID, lang string, rerender bool) {
	ctx := context.Background()
	if lang == "" {
		lang = c.defaultLang
		if lang == "" {
			lang = "original"
		}
	}
	sess := c.store.GetOrCreate(channelID)

	status, err := m.ChannelMessageSend(channelID, statusText("", rerender))
	if err != nil {
		c.log.Error("send status message", "channel", channelID, "err", err)
	}

	progress := func(phase pipeline.Phase) {
		if status == nil {
			return
		}
		if _, err := m.ChannelMessageEdit(channelID, status.ID, statusText(phase, rerender)); err != nil {
			c.log.Warn("edit status message", "channel", channelID, "err", err)
		}
	}

	var outcome *pipeline.Outcome
	if rerender {
		outcome, err = c.runner.Rerender(ctx, sess, lang, progress)
	} else {
		outcome, err = c.runner.Run(ctx, sess, lang, progress)
	}

	if err != nil {
		c.log.Error("run failed", "channel", channelID, "language", lang, "rerender", rerender, "err", err)
		c.finishStatus(m, channelID, status, userErrorMessage(err))
		return
	}

	c.finishStatus(m, channelID, status, "✅ **Analysis complete.**")
	c.deliver(ctx, m, channelID, lang, outcome)
}

// finishStatus replaces the live status message with a final line, falling
// back to a fresh message when the status message could not be created.
func (c *Commands) finishStatus(m messenger, channelID string, status *discordgo.Message, content string) {
	if status != nil {
		if _, err := m.ChannelMessageEdit(channelID, status.ID, content); err == nil {
			return
		}
	}
	if _, err := m.ChannelMessageSend(channelID, content); err != nil {
		c.log.Error("send final status", "channel", channelID, "err", err)
	}
}

// deliver posts the three rendered reports as attachments with per-format
// captions, followed by the preview summary.
func (c *Commands) deliver(ctx context.Context, m messenger, channelID, lang string, outcome *pipeline.Outcome) {
	for _, a := range outcome.Artifacts {
		_, err := m.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: caption(a.Name),
			Files: []*discordgo.File{
				{Name: a.Name, Reader: bytes.NewReader(a.Data)},
			},
		})
		if err != nil {
			c.log.Error("deliver artifact", "channel", channelID, "name", a.Name, "err", err)
		}
	}

	if outcome.Preview != "" {
		if _, err := m.ChannelMessageSend(channelID, outcome.Preview); err != nil {
			c.log.Error("send preview", "channel", channelID, "err", err)
		}
	}

	if c.metrics != nil {
		c.metrics.RecordReportDelivered(ctx, lang)
	}
}

// optionString returns the named string option of a slash command
// interaction, or "".
func optionString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
