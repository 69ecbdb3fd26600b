package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/conceptmap"
	"github.com/at-ishikawa/rensou/internal/explorer"
	"github.com/at-ishikawa/rensou/internal/export"
	"github.com/at-ishikawa/rensou/internal/search"
	"github.com/at-ishikawa/rensou/internal/session"
)

const (
	prompt        = "連想> "
	commandPrefix = ":"
)

const helpText = `単語を入力すると関連概念を検索します。
  N, :open N          一覧の N 番目の概念へ移動
  :history            最近の検索履歴
  :replay N|WORD      履歴の単語を再表示
  :sources [a,b]      検索ソースを表示または変更 (wikipedia, weblio, related)
  :max [N]            ソースあたりの最大概念数を表示または変更 (3-15)
  :clear              結果をクリア
  :map FILE           概念マップを保存 (.svg または .png)
  :export FORMAT [FILE]  辞書をエクスポート (json, yaml, markdown, pdf, mysql)
  :export FILE        拡張子から形式を判定してエクスポート
  :dict               構築済み辞書を表示
  :help               このヘルプ
  :quit               終了`

type WalkOptions struct {
	ConceptMapTemplate string
	DictionaryTemplate string
	FontPath           string
	Fonts              *conceptmap.Fonts
	OutputDir          string
	// MySQL receives the mysql export format; the format is rejected when nil.
	MySQL export.Sink
}

// WalkSession lets the user search a word and hop from concept to concept.
type WalkSession struct {
	*InteractiveCLI

	explorer *explorer.Explorer
	opts     WalkOptions
	// listed holds the concepts numbered in the last listing.
	listed       []string
	sourceColors map[concept.Source]*color.Color
}

var _ Session = (*WalkSession)(nil)

func NewWalkSession(cli *InteractiveCLI, e *explorer.Explorer, opts WalkOptions) *WalkSession {
	return &WalkSession{
		InteractiveCLI: cli,
		explorer:       e,
		opts:           opts,
		sourceColors: map[concept.Source]*color.Color{
			concept.SourceWikipedia: color.New(color.FgHiRed, color.Bold),
			concept.SourceWeblio:    color.New(color.FgHiCyan, color.Bold),
			concept.SourceRelated:   color.New(color.FgHiBlue, color.Bold),
			concept.SourceSaved:     color.New(color.FgHiGreen, color.Bold),
		},
	}
}

func (s *WalkSession) Session(ctx context.Context) error {
	_, _ = s.bold.Fprint(s.stdoutWriter, prompt)
	line, err := s.readLine()
	if err != nil {
		_, _ = fmt.Fprintln(s.stdoutWriter)
		return errEnd
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return nil
	}
	// A number picks from the last listing; with nothing listed it is an ordinary word.
	if index, err := strconv.Atoi(input); err == nil && len(s.listed) > 0 {
		return s.open(ctx, index)
	}
	if !strings.HasPrefix(input, commandPrefix) {
		_ = s.Search(ctx, input)
		return nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(input, commandPrefix), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "quit", "q", "exit":
		return errEnd
	case "help", "h":
		_, _ = fmt.Fprintln(s.stdoutWriter, helpText)
	case "open", "o":
		index, err := strconv.Atoi(arg)
		if err != nil {
			s.printError("番号を指定してください: %s", arg)
			return nil
		}
		return s.open(ctx, index)
	case "history":
		s.printHistory()
	case "replay", "r":
		s.replay(ctx, arg)
	case "sources":
		s.setSources(arg)
	case "max":
		s.setMax(arg)
	case "clear":
		s.explorer.Clear()
		s.listed = nil
		s.printSuccess("検索結果をクリアしました")
	case "map":
		s.writeMap(arg)
	case "export":
		s.export(ctx, arg)
	case "dict":
		s.printDictionary()
	default:
		s.printError("不明なコマンドです: %s (:help で一覧を表示)", input)
	}
	return nil
}

// Search looks up word, prints the outcome and returns the error that stopped the search, if any.
func (s *WalkSession) Search(ctx context.Context, word string) error {
	notice, err := s.explorer.Search(ctx, word)
	s.show(notice, err)
	return err
}

func (s *WalkSession) open(ctx context.Context, index int) error {
	if index < 1 || index > len(s.listed) {
		s.printError("%d 番の概念はありません", index)
		return nil
	}
	notice, err := s.explorer.Select(ctx, s.listed[index-1])
	s.show(notice, err)
	return nil
}

func (s *WalkSession) replay(ctx context.Context, arg string) {
	word := arg
	recent := s.explorer.State().RecentHistory(session.RecentHistorySize)
	if index, err := strconv.Atoi(arg); err == nil {
		if index < 1 || index > len(recent) {
			s.printError("%d 番の履歴はありません", index)
			return
		}
		word = recent[index-1]
	}
	notice, err := s.explorer.Replay(ctx, word)
	s.show(notice, err)
}

// show prints the outcome of an event and, when something is displayed, the numbered concepts.
func (s *WalkSession) show(notice explorer.Notice, err error) {
	switch {
	case errors.Is(err, search.ErrEmptyWord):
		s.printError("検索する単語を入力してください。")
		return
	case err != nil:
		s.printError("%v", err)
		return
	}

	for _, message := range notice.WarningMessages() {
		s.printWarning("%s", message)
	}
	switch notice.Kind {
	case explorer.NoticeNotFound:
		s.printWarning("%s", notice.Message())
		return
	case explorer.NoticeFound, explorer.NoticeSaved:
		s.printSuccess("%s", notice.Message())
	}
	s.printConcepts()
}

func (s *WalkSession) printConcepts() {
	state := s.explorer.State()
	s.listed = s.listed[:0]
	_, _ = fmt.Fprintf(s.stdoutWriter, "「%s」の関連概念\n", s.bold.Sprint(state.CurrentWord))
	for _, result := range state.Displayed {
		if len(result.Concepts) == 0 {
			continue
		}
		header := s.sourceColors[result.Source]
		if header == nil {
			header = s.bold
		}
		_, _ = header.Fprintf(s.stdoutWriter, "%s (%d個):\n", result.Source, len(result.Concepts))
		for _, c := range result.Concepts {
			s.listed = append(s.listed, c)
			_, _ = fmt.Fprintf(s.stdoutWriter, "  %2d. %s\n", len(s.listed), c)
		}
	}

	statistics := s.explorer.Statistics()
	_, _ = fmt.Fprintf(s.stdoutWriter, "総概念数: %d / 検索ソース数: %d\n", statistics.TotalConcepts, statistics.Sources)
}

func (s *WalkSession) printHistory() {
	recent := s.explorer.State().RecentHistory(session.RecentHistorySize)
	if len(recent) == 0 {
		_, _ = fmt.Fprintln(s.stdoutWriter, "検索履歴はまだありません")
		return
	}
	for i, word := range recent {
		_, _ = fmt.Fprintf(s.stdoutWriter, "  %d. %s\n", i+1, word)
	}
}

func (s *WalkSession) setSources(arg string) {
	if arg == "" {
		_, _ = fmt.Fprintf(s.stdoutWriter, "検索ソース: %s\n", strings.Join(concept.SourceIDs(s.explorer.Sources()), ", "))
		return
	}
	sources, err := concept.ParseSources(strings.Split(arg, ","))
	if err == nil {
		err = s.explorer.SetSources(sources)
	}
	if err != nil {
		s.printError("%v", err)
		return
	}
	s.printSuccess("検索ソース: %s", strings.Join(concept.SourceIDs(sources), ", "))
}

func (s *WalkSession) setMax(arg string) {
	if arg == "" {
		_, _ = fmt.Fprintf(s.stdoutWriter, "ソースあたりの最大概念数: %d\n", s.explorer.MaxConcepts())
		return
	}
	maxConcepts, err := strconv.Atoi(arg)
	if err == nil {
		err = s.explorer.SetMaxConcepts(maxConcepts)
	}
	if err != nil {
		s.printError("%v", err)
		return
	}
	s.printSuccess("ソースあたりの最大概念数: %d", maxConcepts)
}

func (s *WalkSession) writeMap(path string) {
	if path == "" {
		s.printError("保存先のファイルを指定してください (.svg または .png)")
		return
	}
	if err := WriteMap(path, s.explorer.Diagram(), MapOptions{
		TemplatePath: s.opts.ConceptMapTemplate,
		Fonts:        s.opts.Fonts,
	}); err != nil {
		s.printError("%v", err)
		return
	}
	s.printSuccess("概念マップを保存しました: %s", path)
}

// export accepts "FORMAT [FILE]" or a bare "FILE" whose extension names the format.
func (s *WalkSession) export(ctx context.Context, arg string) {
	formatArg, path, _ := strings.Cut(arg, " ")
	path = strings.TrimSpace(path)
	format, err := export.ParseFormat(formatArg)
	if err != nil && path == "" {
		if inferred, inferErr := export.FormatFromPath(formatArg); inferErr == nil {
			format, path, err = inferred, formatArg, nil
		}
	}
	if err == nil {
		err = s.Export(ctx, format, path)
	}
	if err != nil {
		s.printError("%v", err)
	}
}

var errMySQLNotConfigured = errors.New("mysql のエクスポートは設定されていません")

// Export writes the dictionary built so far. An empty path uses the default file name in
// the output directory.
func (s *WalkSession) Export(ctx context.Context, format export.Format, path string) error {
	var sink export.Sink
	if format.IsFile() {
		fileSink, err := export.NewFileSink(format, path, s.opts.OutputDir, export.FileOptions{
			DictionaryTemplate: s.opts.DictionaryTemplate,
			FontPath:           s.opts.FontPath,
		})
		if err != nil {
			return fmt.Errorf("export.NewFileSink() > %w", err)
		}
		sink = fileSink
	} else {
		if s.opts.MySQL == nil {
			return errMySQLNotConfigured
		}
		sink = s.opts.MySQL
	}

	destination, err := sink.Write(ctx, &s.explorer.State().Dictionary)
	if err != nil {
		return fmt.Errorf("エクスポートに失敗しました: %w", err)
	}
	s.printSuccess("辞書をエクスポートしました: %s", destination)
	return nil
}

func (s *WalkSession) printDictionary() {
	dictionary := &s.explorer.State().Dictionary
	if dictionary.Len() == 0 {
		_, _ = fmt.Fprintln(s.stdoutWriter, "まだ概念が登録されていません")
		return
	}
	_, _ = fmt.Fprintf(s.stdoutWriter, "登録済み単語: %d\n", dictionary.Len())
	for _, entry := range dictionary.Entries() {
		_, _ = fmt.Fprintf(s.stdoutWriter, "%s: %s\n", s.bold.Sprint(entry.Word), s.italic.Sprint(strings.Join(entry.Concepts, ", ")))
	}
}

type MapOptions struct {
	TemplatePath string
	Fonts        *conceptmap.Fonts
}

// WriteMap saves diagram as SVG or PNG depending on the extension of path.
func WriteMap(path string, diagram conceptmap.Diagram, opts MapOptions) error {
	extension := strings.ToLower(filepath.Ext(path))
	if extension != ".svg" && extension != ".png" {
		return fmt.Errorf("unsupported map format %q: use .svg or .png", extension)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if extension == ".svg" {
		if err := conceptmap.RenderSVG(file, diagram, conceptmap.SVGOptions{TemplatePath: opts.TemplatePath}); err != nil {
			return fmt.Errorf("conceptmap.RenderSVG() > %w", err)
		}
		return nil
	}
	if err := conceptmap.RenderPNG(file, diagram, conceptmap.PNGOptions{Fonts: opts.Fonts}); err != nil {
		return fmt.Errorf("conceptmap.RenderPNG() > %w", err)
	}
	return nil
}
