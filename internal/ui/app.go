// Package ui is the terminal front end: home, archive, show page and
// episode page over one show, with a player bar and a status line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/csams/nutshell/internal/app"
	"github.com/csams/nutshell/internal/detail"
	"github.com/csams/nutshell/internal/key"
	"github.com/csams/nutshell/internal/listing"
	"github.com/csams/nutshell/internal/log"
	"github.com/csams/nutshell/internal/models"
	"github.com/csams/nutshell/internal/open"
	"github.com/csams/nutshell/internal/player"
	"github.com/csams/nutshell/internal/share"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// Page is one of the top-level screens.
type Page int

const (
	PageHome Page = iota
	PageArchive
	PageShow
	PageEpisode
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageArchive:
		return "Archive"
	case PageShow:
		return "Show"
	case PageEpisode:
		return "Episode"
	default:
		return ""
	}
}

// View is a screen body. height excludes the player and status bars.
type View interface {
	Draw(s tcell.Screen, hits *HitMap, height int)
	HandleKey(ev *tcell.EventKey) bool
}

// footerHeight is the player bar plus the status bar.
const footerHeight = 2

const (
	seekShort = 10 * time.Second
	seekLong  = 30 * time.Second
	speedStep = 0.25
)

type App struct {
	screen tcell.Screen
	ctx    *app.Context

	mode     Mode
	page     Page
	lastPage Page

	home      *HomeView
	archive   *ArchiveView
	shows     *ShowListView
	episode   *DetailView
	issue     *IssueView
	playerBar *PlayerBar

	helpDialog    *HelpDialog
	confirmDialog *ConfirmationDialog

	search    *SearchState
	debouncer *listing.Debouncer

	hits          HitMap
	statusMessage string
	loading       bool
	loadErr       error
	dragging      bool
	quitting      bool

	runCtx       context.Context
	group        *errgroup.Group
	shutdownOnce sync.Once
}

// NewApp builds the UI for c. A nil screen uses the terminal.
func NewApp(c *app.Context, screen tcell.Screen) *App {
	a := &App{
		screen:        screen,
		ctx:           c,
		helpDialog:    NewHelpDialog(),
		confirmDialog: NewConfirmationDialog(),
		search:        NewSearchState(),
		debouncer:     c.Debouncer(),
	}

	a.home = NewHomeView(c.Home, a)
	a.archive = NewArchiveView(c.Listing, a)
	a.shows = NewShowListView(c.Show.Name, a)
	a.episode = NewDetailView(a)
	a.issue = NewIssueView(func() { a.startLoad(false) })
	a.playerBar = NewPlayerBar(c.Player, c.Surface)

	return a
}

// Run draws the UI until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		a.screen = s
	}
	if err := a.screen.Init(); err != nil {
		return err
	}
	a.screen.EnableMouse()
	a.screen.SetStyle(styleDefault)
	a.screen.Clear()

	ctx, cancel := context.WithCancel(ctx)
	a.group, a.runCtx = errgroup.WithContext(ctx)

	defer func() {
		cancel()
		a.shutdown()
		a.screen.Fini()
		if err := a.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.Warnf("ui: background work failed: %v", err)
		}
	}()

	a.group.Go(func() error {
		<-a.runCtx.Done()
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	a.group.Go(a.forwardMedia)
	a.startLoad(false)

	linker := a.ctx.DeepLinker(func(slug string) {
		a.deliver(&openEvent{slug: slug})
	})
	a.group.Go(func() error { return linker.Run(a.runCtx) })

	a.draw()
	a.handleEvents()
	return nil
}

func (a *App) shutdown() {
	a.shutdownOnce.Do(func() {
		log.Info("ui: shutting down")
		a.debouncer.Cancel()
		if err := a.ctx.Close(); err != nil {
			log.Warnf("ui: failed to stop player: %v", err)
		}
	})
}

// handleEvents is the UI goroutine. Every state change happens here.
func (a *App) handleEvents() {
	for !a.quitting {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			return
		}
		if a.handleEvent(ev) && !a.quitting {
			a.draw()
		}
	}
}

// handleEvent applies one event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		return true
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		return a.handleMouse(ev)
	case *loadedEvent:
		a.handleLoaded(ev)
		return true
	case *sourcesEvent:
		return a.handleSources(ev)
	case *mediaEvent:
		a.ctx.Player.Observe(ev.event)
		a.ctx.Surface.Handle(ev.event)
		return true
	case *searchEvent:
		if ev.generation != a.debouncer.Generation() {
			return false
		}
		a.archive.Search(ev.query)
		return true
	case *openEvent:
		a.OpenEpisode(ev.slug)
		return true
	}
	return false
}

// startLoad fetches episodes off the UI goroutine. refresh skips the cache.
func (a *App) startLoad(refresh bool) {
	if a.loading {
		return
	}
	a.loading = true
	a.loadErr = nil
	a.statusMessage = "Loading episodes..."

	a.group.Go(func() error {
		var episodes []models.Episode
		var err error
		if refresh {
			episodes, err = a.ctx.Refresh(a.runCtx)
		} else {
			episodes, err = a.ctx.Load(a.runCtx)
		}
		a.deliver(&loadedEvent{episodes: episodes, err: err})
		return nil
	})
}

func (a *App) handleLoaded(ev *loadedEvent) {
	a.loading = false

	if ev.err != nil {
		if errors.Is(ev.err, context.Canceled) {
			return
		}
		log.Errorf("ui: %v", ev.err)
		if a.ctx.Store.Len() == 0 {
			a.loadErr = ev.err
			a.issue.SetError(ev.err)
			a.statusMessage = ""
			return
		}
		a.statusMessage = "Refresh failed, keeping the current episodes"
		return
	}

	a.ctx.Apply(ev.episodes)
	a.home.SetHome(a.ctx.Home)
	a.archive.SetListing(a.ctx.Listing)
	a.shows.SetRows(a.ctx.ShowList())

	a.statusMessage = fmt.Sprintf("%d episodes", len(ev.episodes))
	if a.ctx.Store.Mock() {
		a.statusMessage = "Feed unreachable, showing placeholder episodes"
	}
}

func (a *App) handleSources(ev *sourcesEvent) bool {
	if errors.Is(ev.err, detail.ErrStale) || a.page != PageEpisode {
		return false
	}
	if ev.err != nil {
		log.Debugf("ui: sources: %v", ev.err)
	}
	a.episode.SetView(a.ctx.Detail.View())
	return true
}

// forwardMedia relays player events to the UI goroutine. Time updates are
// dropped when the queue is full; the next one replaces them.
func (a *App) forwardMedia() error {
	events := a.ctx.Player.Events()
	for {
		select {
		case <-a.runCtx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			ev := &mediaEvent{event: e}
			if e.Kind == player.TimeUpdate {
				ev.SetEventNow()
				a.screen.PostEvent(ev)
				continue
			}
			a.deliver(ev)
		}
	}
}

// OpenEpisode shows the episode page for slug and loads its sources.
func (a *App) OpenEpisode(slug string) {
	view, err := a.ctx.Detail.Open(slug)
	if err != nil {
		a.statusMessage = err.Error()
		return
	}

	a.ctx.Surface.Reset()
	a.episode.SetView(view)
	if a.page != PageEpisode {
		a.lastPage = a.page
	}
	a.page = PageEpisode
	a.mode = ModeNormal
	a.shows.SetRows(a.ctx.ShowList())

	if view.State == detail.LoadingSources {
		a.group.Go(func() error {
			_, err := a.ctx.Detail.LoadSources(a.runCtx)
			a.deliver(&sourcesEvent{err: err})
			return nil
		})
	}
}

// CloseEpisode leaves the episode page for the page it was opened from.
func (a *App) CloseEpisode() {
	if a.page != PageEpisode {
		return
	}
	a.ctx.Detail.Close()
	a.ctx.Surface.Reset()
	a.episode.SetView(a.ctx.Detail.View())
	a.shows.SetRows(a.ctx.ShowList())
	a.page = a.lastPage
}

// OpenLink hands url to the browser.
func (a *App) OpenLink(url string) {
	if err := open.Start(url, viper.GetString(key.OpenWith)); err != nil {
		log.Warnf("ui: failed to open %s: %v", url, err)
		a.statusMessage = "Open this link: " + url
		return
	}
	a.statusMessage = "Opened " + url
}

func (a *App) copyLink() {
	link, method := a.ctx.Share()
	switch {
	case link == "":
		return
	case method == share.Clipboard:
		a.statusMessage = "Link copied to clipboard"
	case method == share.Terminal:
		a.statusMessage = "Link sent to the terminal clipboard"
	default:
		a.statusMessage = "Copy this link: " + link
	}
}

func (a *App) currentView() View {
	if a.loadErr != nil && a.ctx.Store.Len() == 0 {
		return a.issue
	}
	switch a.page {
	case PageArchive:
		return a.archive
	case PageShow:
		return a.shows
	case PageEpisode:
		return a.episode
	default:
		return a.home
	}
}

func (a *App) cycle(delta int) {
	if a.page == PageEpisode {
		return
	}
	pages := []Page{PageHome, PageArchive, PageShow}
	next := (int(a.page) + delta + len(pages)) % len(pages)
	a.page = pages[next]
	if a.page == PageShow {
		a.shows.SetRows(a.ctx.ShowList())
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if a.helpDialog.IsVisible() {
		return a.helpDialog.HandleKey(ev)
	}
	if a.confirmDialog.IsVisible() {
		return a.confirmDialog.HandleKey(ev)
	}
	if a.mode == ModeSearch {
		return a.handleSearchKey(ev)
	}

	if a.currentView().HandleKey(ev) {
		return true
	}

	switch ev.Key() {
	case tcell.KeyTab:
		a.cycle(1)
		return true
	case tcell.KeyBacktab:
		a.cycle(-1)
		return true
	case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.CloseEpisode()
		return true
	case tcell.KeyLeft:
		return a.playerErr(a.ctx.Player.SeekRelative(-seekShort))
	case tcell.KeyRight:
		return a.playerErr(a.ctx.Player.SeekRelative(seekShort))
	case tcell.KeyCtrlC:
		a.quitting = true
		return false
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return false
}

func (a *App) handleRune(r rune) bool {
	p := a.ctx.Player
	switch r {
	case 'q':
		a.quitting = true
		return false
	case '?':
		a.helpDialog.Show()
	case 'h':
		a.CloseEpisode()
	case '/':
		if a.page == PageEpisode {
			a.CloseEpisode()
		}
		a.page = PageArchive
		a.mode = ModeSearch
		a.search.SetQuery(a.archive.Page().Query)
	case 'c':
		a.copyLink()
	case 'R':
		a.confirmDialog.Show("Refresh episodes",
			"Fetch the feed again and replace the cached episode list?",
			func() { a.startLoad(true) }, nil)
	case ' ':
		return a.playerErr(p.TogglePause())
	case 'f':
		return a.playerErr(p.SeekRelative(seekLong))
	case 'b':
		return a.playerErr(p.SeekRelative(-seekLong))
	case 'm':
		return a.playerErr(p.ToggleMute())
	case '<':
		return a.playerErr(p.SetSpeed(p.GetSpeed() - speedStep))
	case '>':
		return a.playerErr(p.SetSpeed(p.GetSpeed() + speedStep))
	case '=':
		return a.playerErr(p.SetSpeed(1.0))
	default:
		return false
	}
	return true
}

func (a *App) playerErr(err error) bool {
	if err != nil {
		log.Warnf("ui: player: %v", err)
		a.statusMessage = err.Error()
	}
	return true
}

func (a *App) handleSearchKey(ev *tcell.EventKey) bool {
	s := a.search
	switch ev.Key() {
	case tcell.KeyEscape:
		a.debouncer.Cancel()
		s.Clear()
		a.archive.Search("")
		a.mode = ModeNormal
		return true
	case tcell.KeyEnter:
		a.debouncer.Cancel()
		a.archive.Search(s.Query())
		a.mode = ModeNormal
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.DeleteChar()
	case tcell.KeyDelete:
		s.DeleteCharForward()
	case tcell.KeyLeft:
		s.MoveCursorLeft()
		return true
	case tcell.KeyRight:
		s.MoveCursorRight()
		return true
	case tcell.KeyCtrlA:
		s.MoveCursorStart()
		return true
	case tcell.KeyCtrlE:
		s.MoveCursorEnd()
		return true
	case tcell.KeyCtrlK:
		s.DeleteToEnd()
	case tcell.KeyCtrlW:
		s.DeleteWord()
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			switch ev.Rune() {
			case 'f':
				s.MoveCursorWordForward()
				return true
			case 'b':
				s.MoveCursorWordBackward()
				return true
			case 'd':
				s.DeleteWordForward()
			default:
				return false
			}
		} else {
			s.InsertChar(ev.Rune())
		}
	default:
		return false
	}

	a.scheduleSearch(s.Query())
	return true
}

// scheduleSearch runs query once typing pauses.
func (a *App) scheduleSearch(query string) {
	a.debouncer.Call(func() {
		a.deliver(&searchEvent{query: query, generation: a.debouncer.Generation()})
	})
}

func (a *App) handleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	bar := a.playerBar

	switch {
	case ev.Buttons()&tcell.Button1 != 0 && a.dragging:
		a.ctx.Surface.DragTo(bar.Clamp(x))
		return true
	case ev.Buttons()&tcell.Button1 != 0:
		if a.helpDialog.IsVisible() || a.confirmDialog.IsVisible() {
			return false
		}
		if frac, ok := bar.Fraction(x, y); ok {
			a.dragging = true
			a.ctx.Surface.BeginDrag()
			a.ctx.Surface.DragTo(frac)
			return true
		}
		return a.hits.Click(x, y)
	case ev.Buttons() == tcell.ButtonNone && a.dragging:
		a.dragging = false
		return a.playerErr(a.ctx.Surface.EndDrag())
	case ev.Buttons()&tcell.WheelDown != 0:
		return a.currentView().HandleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	case ev.Buttons()&tcell.WheelUp != 0:
		return a.currentView().HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	}
	return false
}

func (a *App) draw() {
	w, h := a.screen.Size()
	for y := 0; y < h; y++ {
		fillRow(a.screen, y, w, styleDefault)
	}

	a.hits.Reset()
	body := h - footerHeight
	if a.loading && a.ctx.Store.Len() == 0 {
		msg := "Loading episodes..."
		drawText(a.screen, centered(w, msg), body/2, styleDimmed, msg)
	} else {
		a.currentView().Draw(a.screen, &a.hits, body)
	}

	a.playerBar.Draw(a.screen, &a.hits, h-2)
	a.drawStatusBar()

	a.helpDialog.Draw(a.screen)
	a.confirmDialog.Draw(a.screen)

	a.screen.Show()
}

func (a *App) drawStatusBar() {
	w, h := a.screen.Size()
	y := h - 1
	fillRow(a.screen, y, w, styleStatusBar)

	right := a.ctx.Show.Name + " · " + a.page.String()
	rightX := w - len([]rune(right)) - 1

	x := 0
	if a.mode == ModeSearch {
		prompt := "/" + a.search.Query()
		x = drawText(a.screen, 0, y, styleStatusBar, prompt)

		query := []rune(a.search.Query())
		cursor := a.search.Cursor()
		ch := ' '
		if cursor < len(query) {
			ch = query[cursor]
		}
		a.screen.SetContent(1+cursor, y, ch, nil, styleStatusBar.Reverse(true))
		x = max(x, 1+cursor+1)
	} else {
		x = drawText(a.screen, 0, y, styleStatusBar.Bold(true), "NORMAL")
	}

	if a.statusMessage != "" {
		msgStyle := styleStatusBar.Foreground(ColorYellow)
		drawClipped(a.screen, x+2, y, rightX-x-3, msgStyle, a.statusMessage)
	}
	drawText(a.screen, rightX, y, styleStatusBar.Foreground(ColorDimmed), right)
}
