package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/BradleyStaples/minesweeper/db/sqlc"
	cerr "github.com/BradleyStaples/minesweeper/internal/error"
	mc "github.com/BradleyStaples/minesweeper/models/connection"
	ms "github.com/BradleyStaples/minesweeper/models/minesweeper"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    ms.GameManager
	q              sqlc.Querier
	ipnet          net.IPNet
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager ms.GameManager,
	q sqlc.Querier,
) RequestProcessor {
	rp := RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		q:              q,
	}

	rp = rp.mustGetServerIpNet()
	return rp
}

func (rp RequestProcessor) mustGetServerIpNet() RequestProcessor {
	ifaces, err := net.Interfaces()
	if err != nil {
		panic(err)
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			panic(err)
		}

		for _, addr := range addrs {
			var ipnet *net.IPNet
			var ip net.IP

			switch v := addr.(type) {
			case *net.IPNet:
				ipnet = v
				ip = v.IP

			case *net.IPAddr:
				ip = v.IP
			}

			if ip != nil && ip.To4() != nil && !ip.IsLoopback() {
				rp.ipnet = *ipnet
				return rp
			}
		}
	}

	panic("ipnet could not be found!")
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		http.Error(w, "could not open websocket connection", http.StatusBadRequest)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		session, err := rp.sessionManager.FindSession(sessionIdQuery)
		if err != nil {
			// This either means an expired session or invalid session ID
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			conn.Close()
			return
		}
		rp.sessionManager.ReconnectSession(session, conn)
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if game := rp.sessionManager.GetSessionGame(session); game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}
		if session.Conn() != nil {
			session.Conn().Close()
		}
		rp.sessionManager.TerminateSession(session)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

	serverPqtypeInet := pqtype.Inet{IPNet: rp.ipnet, Valid: true}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		var signal mc.Signal

		if err := json.Unmarshal(payload, &signal); err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch signal.Code {

		// Board settings from the dialog; the previous game of this
		// session, if any, is torn down and replaced wholesale
		case mc.CodeNewGame:
			rp.incrementGamesCreated(serverPqtypeInet)

			game, respMsg := NewRequest(payload).HandleNewGame(rp.gameManager)
			if game != nil {
				rp.replaceSessionGame(session, game)
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeReveal:
			game := rp.sessionManager.GetSessionGame(session)
			respMsg, result := NewRequest(payload).HandleReveal(game)

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if result.GameOver {
				gameOverMsg := newGameOverMsg(game, result.Outcome, result.Mines, result.MissedMines)
				if err := rp.sessionManager.WriteToSessionConn(session, gameOverMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeFlag:
			game := rp.sessionManager.GetSessionGame(session)
			respMsg, result := NewRequest(payload).HandleFlag(game)

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if result.GameOver {
				gameOverMsg := newGameOverMsg(game, result.Outcome, result.Mines, result.MissedMines)
				if err := rp.sessionManager.WriteToSessionConn(session, gameOverMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		// The one save slot is overwritten unconditionally; a save
		// failure is reported and leaves the running game untouched
		case mc.CodeSaveGame:
			game := rp.sessionManager.GetSessionGame(session)
			snap, respMsg := NewRequest(payload).HandleSaveGame(game)

			if respMsg.Error == nil {
				if err := rp.persistSnapshot(snap); err != nil {
					respMsg.AddError(err.Error(), "failed to save game")
				} else {
					rp.incrementGamesSaved(serverPqtypeInet)
				}
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeLoadGame:
			respMsg := mc.NewMessage[mc.RespLoadGame](mc.CodeLoadGame)

			snap, err := rp.fetchSnapshot()
			if err != nil {
				respMsg.AddError(err.Error(), "nothing to load")
				if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			game, respMsg := NewRequest(payload).HandleLoadGame(rp.gameManager, snap)
			if game != nil {
				rp.replaceSessionGame(session, game)
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}

// Exactly one game is live per session; the old one is frozen and
// forgotten before the new one takes its place.
func (rp *RequestProcessor) replaceSessionGame(session *mc.Session, game *ms.Game) {
	if prev := rp.sessionManager.GetSessionGame(session); prev != nil {
		rp.gameManager.TerminateGame(prev.Uuid())
	}
	rp.sessionManager.SetSessionGame(session, game)
}

func (rp *RequestProcessor) persistSnapshot(snap ms.Snapshot) error {
	if rp.q == nil {
		return errors.New("persistence is not available on this server")
	}

	params, err := snapshotToSlotParams(snap)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	return rp.q.UpsertSaveSlot(ctx, params)
}

func (rp *RequestProcessor) fetchSnapshot() (ms.Snapshot, error) {
	if rp.q == nil {
		return ms.Snapshot{}, errors.New("persistence is not available on this server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	slot, err := rp.q.GetSaveSlot(ctx, sqlc.DefaultSlotName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ms.Snapshot{}, cerr.ErrNothingToLoad()
		}
		return ms.Snapshot{}, err
	}

	return slotToSnapshot(slot)
}

func (rp *RequestProcessor) incrementGamesCreated(serverIpNet pqtype.Inet) {
	if rp.q == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.q.AnalyticsIncrementGamesCreatedCount(ctx, serverIpNet); err != nil {
		// for now not killing the game for it
		log.Println(err)
	}
}

func (rp *RequestProcessor) incrementGamesSaved(serverIpNet pqtype.Inet) {
	if rp.q == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.q.AnalyticsIncrementGamesSavedCount(ctx, serverIpNet); err != nil {
		log.Println(err)
	}
}
