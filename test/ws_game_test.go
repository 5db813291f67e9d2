package test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/BradleyStaples/minesweeper/db/sqlc"
	cerr "github.com/BradleyStaples/minesweeper/internal/error"
	mc "github.com/BradleyStaples/minesweeper/models/connection"
	ms "github.com/BradleyStaples/minesweeper/models/minesweeper"
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectedErr  bool

	reqPayload  T
	respPayload K // Used to unmarshal the response

	conn *websocket.Conn
}

// The mine layout is random, so the tests read it back through a
// snapshot to pick their target cells deterministically.
func adjacentFromGrid(grid [][]ms.Cell, row, col int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := row+dr, col+dc
			if nr < 0 || nc < 0 || nr >= len(grid) || nc >= len(grid[nr]) {
				continue
			}
			if grid[nr][nc].HasMine {
				count++
			}
		}
	}
	return count
}

// findTargetCells picks a mined cell and a safe cell that borders at
// least one mine, so a reveal on it cannot cascade.
func findTargetCells(t *testing.T, game *ms.Game) (safe, mine ms.Coords) {
	t.Helper()

	grid := game.Snapshot(nil).Grid
	foundSafe, foundMine := false, false

	for r := range grid {
		for c := range grid[r] {
			if grid[r][c].HasMine {
				if !foundMine {
					mine = ms.NewCoords(r, c)
					foundMine = true
				}
				continue
			}
			if !foundSafe && adjacentFromGrid(grid, r, c) > 0 {
				safe = ms.NewCoords(r, c)
				foundSafe = true
			}
		}
	}

	if !foundSafe || !foundMine {
		t.Fatal("board has no usable safe/mine cells")
	}
	return safe, mine
}

func serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: testRp.GetIpNet(), Valid: true}
}

func TestInvalidCode(t *testing.T) {
	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
			respPayload:  mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal),
			conn:         PlayerConn,
		},
		{
			name:         "session id code is server-only",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeSessionID),
			respPayload:  mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal),
			conn:         PlayerConn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.conn.WriteJSON(test.reqPayload); err != nil {
				t.Fatal(err)
			}

			if err := test.conn.ReadJSON(&test.respPayload); err != nil {
				t.Fatal(err)
			}

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
		})
	}
}

func TestSignalAbsent(t *testing.T) {
	if err := PlayerConn.WriteMessage(websocket.TextMessage, []byte("not-json")); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.NoPayload]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Code != mc.CodeSignalAbsent {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeSignalAbsent, resp.Code)
	}
}

func TestNewGame(t *testing.T) {
	testMock.ExpectExec(`INSERT INTO analytics`).
		WithArgs(serverInet()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := mc.Message[mc.ReqNewGame]{Code: mc.CodeNewGame, Payload: mc.ReqNewGame{
		SizeMultiplier: ms.SizeMultiplierSmall,
		MineCount:      "10",
	}}
	if err := PlayerConn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespNewGame]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Code != mc.CodeNewGame {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeNewGame, resp.Code)
	}
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	if resp.Payload.Rows != 8 || resp.Payload.Cols != 8 {
		t.Fatalf("expected 8x8 board, got %dx%d", resp.Payload.Rows, resp.Payload.Cols)
	}
	if resp.Payload.MineTarget != 10 || resp.Payload.MinesRemaining != 10 {
		t.Fatalf("expected 10 mines with full counter, got %+v", resp.Payload)
	}

	game, err := testGameManager.FetchGame(resp.Payload.GameUuid)
	if err != nil {
		t.Fatal(err)
	}
	testGame = game
	testGameUuid = resp.Payload.GameUuid

	testMock.ExpectQuery(`SELECT games_created FROM analytics WHERE server_ip = \$1`).
		WithArgs(serverInet()).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	gamesCreated, err := testDbManager.Analytics.GetGamesCreatedCount(ctx, serverInet())
	if err != nil {
		t.Fatalf("failed to fetch created games: %v", err)
	}
	if gamesCreated != 1 {
		t.Fatalf("expected number of created games: %d\tgot: %d", 1, gamesCreated)
	}

	if err = testMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestNewGameInvalidSettings(t *testing.T) {
	tests := []Test[mc.Message[mc.ReqNewGame], mc.Message[mc.RespNewGame]]{
		{
			name:         "unsupported size multiplier",
			expectedCode: mc.CodeNewGame,
			expectedErr:  true,
			reqPayload: mc.Message[mc.ReqNewGame]{Code: mc.CodeNewGame, Payload: mc.ReqNewGame{
				SizeMultiplier: 3,
				MineCount:      "10",
			}},
			conn: PlayerConn,
		},
		{
			name:         "mine count saturates the board",
			expectedCode: mc.CodeNewGame,
			expectedErr:  true,
			reqPayload: mc.Message[mc.ReqNewGame]{Code: mc.CodeNewGame, Payload: mc.ReqNewGame{
				SizeMultiplier: ms.SizeMultiplierSmall,
				MineCount:      "64",
			}},
			conn: PlayerConn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.conn.WriteJSON(test.reqPayload); err != nil {
				t.Fatal(err)
			}

			if err := test.conn.ReadJSON(&test.respPayload); err != nil {
				t.Fatal(err)
			}

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error == nil {
				t.Fatal("expected bad settings to be rejected")
			}

			// The running game of the session must survive a rejected request
			if !testGame.IsActive() {
				t.Fatal("rejected settings ended the running game")
			}
		})
	}
}

func TestReveal(t *testing.T) {
	safe, _ := findTargetCells(t, testGame)

	req := mc.Message[mc.ReqReveal]{Code: mc.CodeReveal, Payload: mc.ReqReveal{
		GameUuid: testGameUuid,
		Row:      safe.Row,
		Col:      safe.Col,
	}}
	if err := PlayerConn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespReveal]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Code != mc.CodeReveal {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeReveal, resp.Code)
	}
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	if resp.Payload.MineHit {
		t.Fatal("safe cell reported as mine hit")
	}

	// The picked cell borders a mine, so the flood fill stops at it
	if len(resp.Payload.Cells) != 1 {
		t.Fatalf("numbered cell must reveal exactly itself, got %d cells", len(resp.Payload.Cells))
	}
	cell := resp.Payload.Cells[0]
	if cell.Row != safe.Row || cell.Col != safe.Col || cell.AdjacentMines < 1 {
		t.Fatalf("unexpected revealed cell: %+v", cell)
	}
	if resp.Payload.Clicks != 1 || resp.Payload.MinesRemaining != 10 {
		t.Fatalf("unexpected counters: %+v", resp.Payload)
	}
}

func TestRevealRejected(t *testing.T) {
	safe, _ := findTargetCells(t, testGame)

	tests := []Test[mc.Message[mc.ReqReveal], mc.Message[mc.RespReveal]]{
		{
			name:         "already revealed cell",
			expectedCode: mc.CodeReveal,
			expectedErr:  true,
			reqPayload: mc.Message[mc.ReqReveal]{Code: mc.CodeReveal, Payload: mc.ReqReveal{
				GameUuid: testGameUuid,
				Row:      safe.Row,
				Col:      safe.Col,
			}},
			conn: PlayerConn,
		},
		{
			name:         "stale game uuid",
			expectedCode: mc.CodeReveal,
			expectedErr:  true,
			reqPayload: mc.Message[mc.ReqReveal]{Code: mc.CodeReveal, Payload: mc.ReqReveal{
				GameUuid: "-1invalid",
				Row:      0,
				Col:      0,
			}},
			conn: PlayerConn,
		},
		{
			name:         "out of board bounds",
			expectedCode: mc.CodeReveal,
			expectedErr:  true,
			reqPayload: mc.Message[mc.ReqReveal]{Code: mc.CodeReveal, Payload: mc.ReqReveal{
				GameUuid: testGameUuid,
				Row:      100,
				Col:      100,
			}},
			conn: PlayerConn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.conn.WriteJSON(test.reqPayload); err != nil {
				t.Fatal(err)
			}

			if err := test.conn.ReadJSON(&test.respPayload); err != nil {
				t.Fatal(err)
			}

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error == nil {
				t.Fatalf("expected rejection, got payload: %+v", test.respPayload.Payload)
			}

			// A rejected action must not cost a click
			if testGame.Clicks() != 1 {
				t.Fatalf("rejected action changed the click counter: %d", testGame.Clicks())
			}
		})
	}
}

func TestFlag(t *testing.T) {
	_, mine := findTargetCells(t, testGame)

	// Flag the mine, then toggle the same cell back off
	tests := []Test[mc.Message[mc.ReqFlag], mc.Message[mc.RespFlag]]{
		{
			name:         "flag a mined cell",
			expectedCode: mc.CodeFlag,
			reqPayload: mc.Message[mc.ReqFlag]{Code: mc.CodeFlag, Payload: mc.ReqFlag{
				GameUuid: testGameUuid,
				Row:      mine.Row,
				Col:      mine.Col,
			}},
			conn: PlayerConn,
		},
		{
			name:         "unflag the same cell",
			expectedCode: mc.CodeFlag,
			reqPayload: mc.Message[mc.ReqFlag]{Code: mc.CodeFlag, Payload: mc.ReqFlag{
				GameUuid: testGameUuid,
				Row:      mine.Row,
				Col:      mine.Col,
			}},
			conn: PlayerConn,
		},
	}

	for i, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.conn.WriteJSON(test.reqPayload); err != nil {
				t.Fatal(err)
			}

			if err := test.conn.ReadJSON(&test.respPayload); err != nil {
				t.Fatal(err)
			}

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error != nil {
				t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
			}

			payload := test.respPayload.Payload
			if payload.Row != mine.Row || payload.Col != mine.Col {
				t.Fatalf("flag response for the wrong cell: %+v", payload)
			}

			switch i {
			case 0:
				if !payload.Flagged || payload.MinesRemaining != 9 || payload.Clicks != 2 {
					t.Fatalf("unexpected flag state: %+v", payload)
				}
			case 1:
				if payload.Flagged || payload.MinesRemaining != 10 || payload.Clicks != 3 {
					t.Fatalf("unexpected unflag state: %+v", payload)
				}
			}
		})
	}
}

func TestSaveGame(t *testing.T) {
	testMock.ExpectExec(`INSERT INTO save_slots`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	testMock.ExpectExec(`INSERT INTO analytics`).
		WithArgs(serverInet()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := mc.Message[mc.ReqSaveGame]{Code: mc.CodeSaveGame, Payload: mc.ReqSaveGame{
		GameUuid:     testGameUuid,
		Presentation: json.RawMessage(`{"theme":"dark"}`),
	}}
	if err := PlayerConn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespSaveGame]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Code != mc.CodeSaveGame {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeSaveGame, resp.Code)
	}
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}
	if resp.Payload.GameUuid != testGameUuid {
		t.Fatalf("saved the wrong game: %s", resp.Payload.GameUuid)
	}

	testMock.ExpectQuery(`SELECT games_saved FROM analytics WHERE server_ip = \$1`).
		WithArgs(serverInet()).
		WillReturnRows(sqlmock.NewRows([]string{"games_saved"}).AddRow(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	gamesSaved, err := testDbManager.Analytics.GetGamesSavedCount(ctx, serverInet())
	if err != nil {
		t.Fatalf("failed to fetch saved games: %v", err)
	}
	if gamesSaved != 1 {
		t.Fatalf("expected number of saved games: %d\tgot: %d", 1, gamesSaved)
	}

	if err = testMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestSaveGameDbFailure(t *testing.T) {
	testMock.ExpectExec(`INSERT INTO save_slots`).
		WillReturnError(errors.New("disk full"))

	req := mc.Message[mc.ReqSaveGame]{Code: mc.CodeSaveGame, Payload: mc.ReqSaveGame{
		GameUuid: testGameUuid,
	}}
	if err := PlayerConn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespSaveGame]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Error == nil {
		t.Fatal("expected save failure to be reported")
	}
	if !testGame.IsActive() {
		t.Fatal("save failure ended the running game")
	}

	if err := testMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestRevealMineGameOver(t *testing.T) {
	_, mine := findTargetCells(t, testGame)

	req := mc.Message[mc.ReqReveal]{Code: mc.CodeReveal, Payload: mc.ReqReveal{
		GameUuid: testGameUuid,
		Row:      mine.Row,
		Col:      mine.Col,
	}}
	if err := PlayerConn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespReveal]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}
	if !resp.Payload.MineHit {
		t.Fatal("mined cell did not report a hit")
	}

	// The losing reveal is followed by the game-over report
	var gameOver mc.Message[mc.RespGameOver]
	if err := PlayerConn.ReadJSON(&gameOver); err != nil {
		t.Fatal(err)
	}

	if gameOver.Code != mc.CodeGameOver {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeGameOver, gameOver.Code)
	}
	if gameOver.Payload.Outcome != ms.GameOutcomeLoss {
		t.Fatalf("expected loss, got %d", gameOver.Payload.Outcome)
	}
	if len(gameOver.Payload.Mines) != 10 {
		t.Fatalf("game-over report must disclose all 10 mines, got %d", len(gameOver.Payload.Mines))
	}
	if len(gameOver.Payload.MissedMines) != 9 {
		t.Fatalf("expected 9 unresolved mines, got %d", len(gameOver.Payload.MissedMines))
	}
	if gameOver.Payload.Clicks != 4 {
		t.Fatalf("expected 4 clicks, got %d", gameOver.Payload.Clicks)
	}

	if testGame.IsActive() {
		t.Fatal("game still active after losing reveal")
	}
}

func TestLoadGameEmptySlot(t *testing.T) {
	testMock.ExpectQuery(`SELECT (.+) FROM save_slots`).
		WithArgs(sqlc.DefaultSlotName).
		WillReturnError(sql.ErrNoRows)

	if err := PlayerConn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeLoadGame)); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespLoadGame]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Code != mc.CodeLoadGame {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeLoadGame, resp.Code)
	}
	if resp.Error == nil {
		t.Fatal("expected empty slot to be reported")
	}
	if resp.Error.ErrorDetails != cerr.ErrNothingToLoad().Error() {
		t.Fatalf("expected error: %s\t got: %s", cerr.ErrNothingToLoad().Error(), resp.Error.ErrorDetails)
	}

	if err := testMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestLoadGame(t *testing.T) {
	grid := make([][]ms.Cell, 3)
	for r := range grid {
		grid[r] = make([]ms.Cell, 3)
	}
	grid[1][1].HasMine = true
	gridJson, err := json.Marshal(grid)
	if err != nil {
		t.Fatal(err)
	}

	presentation := []byte(`{"theme":"dark"}`)
	slotColumns := []string{
		"slot_name", "rows", "cols", "mine_target", "mines_remaining",
		"clicks", "seconds", "grid", "revealed", "flagged", "presentation", "updated_at",
	}

	testMock.ExpectQuery(`SELECT (.+) FROM save_slots`).
		WithArgs(sqlc.DefaultSlotName).
		WillReturnRows(sqlmock.NewRows(slotColumns).AddRow(
			sqlc.DefaultSlotName, 3, 3, 1, 1,
			3, 42, gridJson, []byte(`[{"row":0,"col":0}]`), []byte(`[]`), presentation, time.Now(),
		))

	if err := PlayerConn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeLoadGame)); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespLoadGame]
	if err := PlayerConn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Code != mc.CodeLoadGame {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeLoadGame, resp.Code)
	}
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	payload := resp.Payload
	if payload.Rows != 3 || payload.Cols != 3 {
		t.Fatalf("expected 3x3 board, got %dx%d", payload.Rows, payload.Cols)
	}
	if payload.MineTarget != 1 || payload.MinesRemaining != 1 {
		t.Fatalf("unexpected mine counters: %+v", payload)
	}
	if payload.Clicks != 3 || payload.Seconds != 42 {
		t.Fatalf("unexpected progress counters: %+v", payload)
	}
	expectedRevealed := []ms.RevealedCell{{Row: 0, Col: 0, AdjacentMines: 1}}
	if !reflect.DeepEqual(payload.Revealed, expectedRevealed) {
		t.Fatalf("expected revealed cells: %+v\t got: %+v", expectedRevealed, payload.Revealed)
	}
	if len(payload.Flagged) != 0 {
		t.Fatalf("expected no flags, got %v", payload.Flagged)
	}
	if string(payload.Presentation) != string(presentation) {
		t.Fatalf("presentation blob altered: %s", payload.Presentation)
	}

	// The loaded game replaces the finished one wholesale
	if payload.GameUuid == testGameUuid {
		t.Fatal("loaded game reused the old uuid")
	}
	if _, err := testGameManager.FetchGame(payload.GameUuid); err != nil {
		t.Fatal(err)
	}
	if _, err := testGameManager.FetchGame(testGameUuid); err == nil {
		t.Fatal("replaced game still registered")
	}

	if err := testMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestSessionTermination(t *testing.T) {
	session, err := testSessionManager.FindSession(PlayerSession)
	if err != nil {
		t.Fatal(err)
	}
	testSessionManager.TerminateSession(session)

	_, err = testSessionManager.FindSession(PlayerSession)
	if err.Error() != cerr.ErrSessionNotFound(PlayerSession).Error() {
		t.Fatal("session must not exist in session map after termination")
	}
}
