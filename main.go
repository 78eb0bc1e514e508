package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ShikharGupta-75/Video-Call-translator/call"
	"github.com/ShikharGupta-75/Video-Call-translator/cam"
	"github.com/ShikharGupta-75/Video-Call-translator/lang"
	"github.com/ShikharGupta-75/Video-Call-translator/menu"
	"github.com/ShikharGupta-75/Video-Call-translator/mic"
	"github.com/ShikharGupta-75/Video-Call-translator/mt"
	"github.com/ShikharGupta-75/Video-Call-translator/snd"
	"github.com/ShikharGupta-75/Video-Call-translator/stt"
	"github.com/ShikharGupta-75/Video-Call-translator/tts"
)

var logger *log.Logger

func init() {
	cobra.OnInitialize(initConfig)

	callCmd.Flags().String("source", "", "Language you speak, e.g. en")
	callCmd.Flags().String("target", "", "Language the other side hears, e.g. hi")
	callCmd.Flags().
		String("mode", "", "host, join or demo; empty asks interactively")
	callCmd.Flags().Int("port", 5000, "Call port")
	callCmd.Flags().String("peer", "", "Host address to join")
	callCmd.Flags().
		String("stt", "deepgram", "Recognition engine: deepgram or stub")
	callCmd.Flags().
		String("mt", "google", "Translation engine: google, openai or stub")
	callCmd.Flags().
		String("tts", "google", "Synthesis engine: google, elevenlabs or stub")
	callCmd.Flags().String("camera", "test", "Camera: test")
	callCmd.Flags().Bool("no-ui", false, "Run without the terminal UI")
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(langsCmd)

	// Add persistent flags
	rootCmd.PersistentFlags().
		String("deepgram-api-key", "", "Deepgram API key")
	rootCmd.PersistentFlags().String("openai-api-key", "", "OpenAI API key")
	rootCmd.PersistentFlags().
		String("elevenlabs-api-key", "", "ElevenLabs API key")
	rootCmd.PersistentFlags().
		String("log-level", "info", "Log level: debug, info, warn or error")

	// Bind flags to viper
	viper.BindPFlag(
		"deepgram_api_key",
		rootCmd.PersistentFlags().Lookup("deepgram-api-key"),
	)
	viper.BindPFlag(
		"openai_api_key",
		rootCmd.PersistentFlags().Lookup("openai-api-key"),
	)
	viper.BindPFlag(
		"elevenlabs_api_key",
		rootCmd.PersistentFlags().Lookup("elevenlabs-api-key"),
	)
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Printf("Error reading config file: %s\n", err)
		}
	}

	logger = log.New(os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "translator",
	Short: "Translator is a video call that speaks both languages",
	Long:  `Translator runs point-to-point video calls where everything you say is transcribed, translated, and spoken to the other side in their own language.`,
}

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Start or join a call",
	Run:   runCall,
}

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List the supported languages",
	Run:   runLangs,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runCall(cmd *cobra.Command, args []string) {
	mainLogger, hearLogger, talkLogger, callLogger := createLoggers()

	sourceCode, _ := cmd.Flags().GetString("source")
	targetCode, _ := cmd.Flags().GetString("target")
	modeName, _ := cmd.Flags().GetString("mode")
	port, _ := cmd.Flags().GetInt("port")
	peer, _ := cmd.Flags().GetString("peer")
	noUI, _ := cmd.Flags().GetBool("no-ui")

	choices, ask, err := resolveChoices(sourceCode, targetCode, modeName, port, peer)
	if err != nil {
		mainLogger.Fatal("call setup", "error", err.Error())
	}
	if ask {
		choices, err = menu.Run(choices)
		if err != nil {
			mainLogger.Fatal("call setup", "error", err.Error())
		}
	}

	recognizer := pickRecognizer(cmd, mainLogger)
	translator := pickTranslator(cmd, mainLogger)
	synthesizer := pickSynthesizer(cmd, mainLogger)
	camera := pickCamera(cmd, mainLogger)
	microphone := openMicrophone(hearLogger)
	player := openPlayer(talkLogger)

	var display cam.Display = cam.Nop{}
	if !noUI {
		// The UI owns the terminal, so logs move to a file.
		f, err := os.OpenFile(
			"translator.log",
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0644,
		)
		if err != nil {
			mainLogger.Fatal("open log file", "error", err.Error())
		}
		defer f.Close()
		logger.SetOutput(f)
		display = cam.NewTerm(cam.TermConfig{})
	}

	cfg := call.Config{
		Mode:   choices.Mode,
		Source: choices.Source,
		Target: choices.Target,
	}
	switch choices.Mode {
	case call.ModeHost:
		cfg.ListenAddr = choices.ListenAddr()
	case call.ModeJoin:
		cfg.PeerAddr = choices.PeerAddr()
	}

	pipe, err := call.New(cfg, call.Stack{
		Mic:         microphone,
		Recognizer:  recognizer,
		Translator:  translator,
		Synthesizer: synthesizer,
		Player:      player,
		Camera:      camera,
		Display:     display,
		Log:         callLogger,
	})
	if err != nil {
		mainLogger.Fatal("start call", "error", err.Error())
	}

	if addr := pipe.Addr(); addr != nil {
		mainLogger.Info("waiting for your peer", "addr", addr)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := pipe.Run(ctx); err != nil {
		mainLogger.Fatal("call failed", "error", err.Error())
	}
}

func runLangs(cmd *cobra.Command, args []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Code", "Language"})
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)

	for _, l := range lang.Catalog {
		table.Append([]string{l.Code, l.Name})
	}

	table.Render()
}

// resolveChoices turns the call flags into settings, reporting whether
// the interactive menu still has questions to ask.
func resolveChoices(
	sourceCode, targetCode, modeName string,
	port int,
	peer string,
) (menu.Choices, bool, error) {
	choices := menu.Choices{Port: port, Host: peer}

	if sourceCode != "" {
		l, ok := lang.ByCode(sourceCode)
		if !ok {
			return menu.Choices{}, false, fmt.Errorf(
				"unknown language %q, try one of: %s",
				sourceCode,
				strings.Join(lang.Codes(), " "),
			)
		}
		choices.Source = l
	}
	if targetCode != "" {
		l, ok := lang.ByCode(targetCode)
		if !ok {
			return menu.Choices{}, false, fmt.Errorf(
				"unknown language %q, try one of: %s",
				targetCode,
				strings.Join(lang.Codes(), " "),
			)
		}
		choices.Target = l
	}

	if modeName == "" {
		return choices, true, nil
	}

	mode, err := parseMode(modeName)
	if err != nil {
		return menu.Choices{}, false, err
	}
	choices.Mode = mode
	if choices.Source.Code == "" {
		choices.Source, _ = lang.ByCode("en")
	}
	if choices.Target.Code == "" {
		choices.Target, _ = lang.ByCode("hi")
	}
	if mode == call.ModeJoin && choices.Host == "" {
		return menu.Choices{}, false, errors.New("joining a call needs --peer=")
	}
	return choices, false, nil
}

func parseMode(s string) (call.Mode, error) {
	switch strings.ToLower(s) {
	case "host":
		return call.ModeHost, nil
	case "join":
		return call.ModeJoin, nil
	case "demo":
		return call.ModeDemo, nil
	}
	return 0, fmt.Errorf("unknown mode %q, try host, join or demo", s)
}

func pickRecognizer(cmd *cobra.Command, mainLogger *log.Logger) stt.Recognizer {
	name, _ := cmd.Flags().GetString("stt")
	switch name {
	case "deepgram":
		key := viper.GetString("deepgram_api_key")
		if key == "" {
			mainLogger.Fatal("missing DEEPGRAM_API_KEY or --deepgram-api-key=")
		}
		return stt.NewDeepgram(key)
	case "stub":
		return &stt.Stub{}
	}
	mainLogger.Fatal("unknown recognition engine", "stt", name)
	return nil
}

func pickTranslator(cmd *cobra.Command, mainLogger *log.Logger) mt.Translator {
	name, _ := cmd.Flags().GetString("mt")
	switch name {
	case "google":
		return mt.NewGoogle()
	case "openai":
		key := viper.GetString("openai_api_key")
		if key == "" {
			mainLogger.Fatal("missing OPENAI_API_KEY or --openai-api-key=")
		}
		return mt.NewOpenAI(key)
	case "stub":
		return mt.Stub{}
	}
	mainLogger.Fatal("unknown translation engine", "mt", name)
	return nil
}

func pickSynthesizer(cmd *cobra.Command, mainLogger *log.Logger) tts.Synthesizer {
	name, _ := cmd.Flags().GetString("tts")
	switch name {
	case "google":
		return tts.NewGoogle()
	case "elevenlabs":
		key := viper.GetString("elevenlabs_api_key")
		if key == "" {
			mainLogger.Fatal(
				"missing ELEVENLABS_API_KEY or --elevenlabs-api-key=",
			)
		}
		return tts.NewElevenLabs(key, "")
	case "stub":
		return tts.Stub{}
	}
	mainLogger.Fatal("unknown synthesis engine", "tts", name)
	return nil
}

// pickCamera is the seam for real capture devices. Only the synthetic
// test pattern exists so far; it keeps calls working on machines
// without a camera.
func pickCamera(cmd *cobra.Command, mainLogger *log.Logger) cam.Camera {
	name, _ := cmd.Flags().GetString("camera")
	switch name {
	case "test":
		return cam.NewTestPattern(640, 480)
	}
	mainLogger.Fatal("unknown camera", "camera", name)
	return nil
}

// openMicrophone falls back to a silent microphone so a machine with
// no capture device can still receive a call.
func openMicrophone(hearLogger *log.Logger) mic.Microphone {
	device, err := mic.Open(mic.DeviceConfig{Log: hearLogger})
	if err != nil {
		hearLogger.Warn("no usable microphone, your side stays silent", "error", err)
		return mic.Silent{}
	}
	return device
}

// openPlayer falls back to a discarding player so the call survives a
// machine with no audio output.
func openPlayer(talkLogger *log.Logger) snd.Player {
	speaker, err := snd.NewSpeaker(talkLogger)
	if err != nil {
		talkLogger.Warn("no usable audio output, translations stay written", "error", err)
		return snd.Discard{Log: talkLogger}
	}
	return speaker
}

func createLoggers() (mainLogger, hearLogger, talkLogger, callLogger *log.Logger) {
	level, err := log.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if level == log.DebugLevel {
		logger.SetReportCaller(true)
		logger.SetCallerFormatter(
			func(file string, line int, funcName string) string {
				path, err := filepath.Rel(".", file)
				if err != nil {
					path = file
				}
				return fmt.Sprintf("%s:%d", path, line)
			},
		)
	}

	styles := log.DefaultStyles()
	styles.Prefix = styles.Prefix.
		Bold(false).Transform(func(s string) string {
		return strings.TrimSuffix(s, ":")
	})
	styles.Message = styles.Message.Bold(true)
	styles.Key = styles.Key.MarginLeft(1).
		Bold(false).
		Foreground(lipgloss.Color("#25A065"))

	logger.SetStyles(styles)

	mainLogger = logger.With().WithPrefix("main")
	hearLogger = logger.With().WithPrefix("hear")
	talkLogger = logger.With().WithPrefix("talk")
	callLogger = logger.With().WithPrefix("call")

	return
}
