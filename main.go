package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/bots"
	"chessbot/config"
	"chessbot/game"
)

var (
	screenWidth  int
	screenHeight int
	squareSize   int
)

var (
	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
	targetTint  = color.RGBA{90, 160, 90, 160}
	lastTint    = color.RGBA{205, 210, 106, 140}
	whiteDisc   = color.RGBA{70, 110, 200, 255}
	blackDisc   = color.RGBA{30, 30, 30, 255}
)

const (
	btnWidth  = 200
	btnHeight = 60
)

type Game struct {
	session  *game.Session
	botDelay time.Duration

	selected     chess.Square
	dragging     bool
	dragX, dragY int
	boardOffsetX int
	boardOffsetY int

	log zerolog.Logger
}

func NewGame(session *game.Session, botDelay time.Duration, logger zerolog.Logger) *Game {
	screenWidth, screenHeight = ebiten.ScreenSizeInFullscreen()

	// leave room for the status line
	boardHeight := screenHeight - 80
	squareSize = boardHeight / 8
	if screenWidth/8 < squareSize {
		squareSize = screenWidth / 8
	}

	boardWidth := squareSize * 8
	return &Game{
		session:      session,
		botDelay:     botDelay,
		boardOffsetX: (screenWidth - boardWidth) / 2,
		boardOffsetY: (screenHeight - boardHeight) / 2,
		log:          logger,
	}
}

// squareAt maps screen coordinates to a square, seen from the player's side.
func (g *Game) squareAt(x, y int) (chess.Square, bool) {
	x -= g.boardOffsetX
	y -= g.boardOffsetY
	if x < 0 || x >= squareSize*8 || y < 0 || y >= squareSize*8 {
		return chess.NoSquare, false
	}
	file, rank := x/squareSize, 7-y/squareSize
	if g.session.Player() == chess.Black {
		file, rank = 7-file, 7-rank
	}
	return chess.Square(file + rank*8), true
}

// squareOrigin is the top-left screen corner of sq.
func (g *Game) squareOrigin(sq chess.Square) (float32, float32) {
	file, rank := int(sq)%8, int(sq)/8
	if g.session.Player() == chess.Black {
		file, rank = 7-file, 7-rank
	}
	return float32(file*squareSize + g.boardOffsetX), float32((7-rank)*squareSize + g.boardOffsetY)
}

func (g *Game) Update() error {
	if !g.session.Started() {
		g.updateColorChoice()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		name := g.session.CycleBot()
		g.log.Info().Str("bot", name).Msg("bot switched")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.session.Start(g.session.Player())
		g.session.ScheduleBot(g.botDelay)
		return nil
	}

	if !g.session.PlayerToMove() {
		g.dragging = false
		return nil
	}

	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if sq, ok := g.squareAt(x, y); ok {
			piece := g.session.Board().Piece(sq)
			if piece != chess.NoPiece && piece.Color() == g.session.Player() {
				g.selected = sq
				g.dragging = true
			}
		}
	}
	g.dragX, g.dragY = x, y

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.dragging {
		g.dragging = false
		target, ok := g.squareAt(x, y)
		if !ok || target == g.selected {
			return nil
		}
		if err := g.session.PlayerMove(g.selected, target); err != nil {
			g.log.Debug().Err(err).Msg("move rejected")
			return nil
		}
		g.session.ScheduleBot(g.botDelay)
	}
	return nil
}

func (g *Game) updateColorChoice() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	btnY := screenHeight/2 + 100
	if y <= btnY || y >= btnY+btnHeight {
		return
	}
	switch {
	case x > screenWidth/2-btnWidth-20 && x < screenWidth/2-20:
		g.session.Start(chess.White)
	case x > screenWidth/2+20 && x < screenWidth/2+20+btnWidth:
		g.session.Start(chess.Black)
		g.session.ScheduleBot(g.botDelay)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.session.Started() {
		g.drawColorChoice(screen)
		return
	}

	for sq := chess.A1; sq <= chess.H8; sq++ {
		clr := darkSquare
		if (int(sq)%8+int(sq)/8)%2 == 1 {
			clr = lightSquare
		}
		x, y := g.squareOrigin(sq)
		vector.DrawFilledRect(screen, x, y, float32(squareSize), float32(squareSize), clr, false)
	}

	if last := g.session.LastMove(); last != nil {
		for _, sq := range []chess.Square{last.S1(), last.S2()} {
			x, y := g.squareOrigin(sq)
			vector.DrawFilledRect(screen, x, y, float32(squareSize), float32(squareSize), lastTint, false)
		}
	}

	// targets of the dragged piece, or of the piece under the cursor
	from, show := g.selected, g.dragging
	if !show && g.session.PlayerToMove() {
		from, show = g.squareAt(ebiten.CursorPosition())
	}
	if show {
		for _, sq := range g.session.Targets(from) {
			x, y := g.squareOrigin(sq)
			half := float32(squareSize) / 2
			vector.DrawFilledCircle(screen, x+half, y+half, half/3, targetTint, true)
		}
	}

	board := g.session.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece || (g.dragging && sq == g.selected) {
			continue
		}
		x, y := g.squareOrigin(sq)
		drawPiece(screen, piece, x+float32(squareSize)/2, y+float32(squareSize)/2)
	}
	if g.dragging {
		drawPiece(screen, board.Piece(g.selected), float32(g.dragX), float32(g.dragY))
	}

	ebitenutil.DebugPrintAt(screen, g.statusLine(), 20, 20)
}

func (g *Game) statusLine() string {
	st := g.session.Status()
	status := "Your move"
	switch {
	case st.Outcome != string(chess.NoOutcome):
		status = fmt.Sprintf("Result: %s (%s)", st.Outcome, st.Method)
	case st.BotThinking:
		status = "Bot is thinking..."
	case st.Turn != st.Player:
		status = "Bot to move"
	}
	return fmt.Sprintf("%s    %s [B: next bot, Esc: new game]", status, st.BotName)
}

func (g *Game) drawColorChoice(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Chess in Go", screenWidth/2-35, screenHeight/2-50)
	ebitenutil.DebugPrintAt(screen, "Choose your colour:", screenWidth/2-60, screenHeight/2)

	btnY := float32(screenHeight/2 + 100)
	whiteX := float32(screenWidth/2 - btnWidth - 20)
	blackX := float32(screenWidth/2 + 20)
	vector.DrawFilledRect(screen, whiteX, btnY, btnWidth, btnHeight, color.RGBA{200, 200, 200, 255}, false)
	vector.DrawFilledRect(screen, blackX, btnY, btnWidth, btnHeight, color.RGBA{50, 50, 50, 255}, false)
	ebitenutil.DebugPrintAt(screen, "Play white", int(whiteX)+65, int(btnY)+22)
	ebitenutil.DebugPrintAt(screen, "Play black", int(blackX)+65, int(btnY)+22)
}

// drawPiece draws a disc with the piece letter centred on (cx, cy). White
// pieces use capitals.
func drawPiece(screen *ebiten.Image, piece chess.Piece, cx, cy float32) {
	disc := whiteDisc
	if piece.Color() == chess.Black {
		disc = blackDisc
	}
	vector.DrawFilledCircle(screen, cx, cy, float32(squareSize)*0.38, disc, true)
	ebitenutil.DebugPrintAt(screen, pieceLetter(piece), int(cx)-3, int(cy)-8)
}

func pieceLetter(piece chess.Piece) string {
	letter := map[chess.PieceType]string{
		chess.King: "k", chess.Queen: "q", chess.Rook: "r",
		chess.Bishop: "b", chess.Knight: "n", chess.Pawn: "p",
	}[piece.Type()]
	if piece.Color() == chess.White {
		return string(letter[0] - 'a' + 'A')
	}
	return letter
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	configPath := flag.String("config", "", "JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	registry, err := bots.Registry(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("building bots")
	}
	session, err := game.NewSession(registry, cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating session")
	}

	g := NewGame(session, time.Duration(cfg.BotDelayMs)*time.Millisecond, logger)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Chess in Go")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal().Err(err).Msg("running game")
	}
}
