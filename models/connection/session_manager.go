package connection

import (
	"encoding/base64"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/BradleyStaples/minesweeper/internal/error"
	ms "github.com/BradleyStaples/minesweeper/models/minesweeper"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically()

	FindSession(sessionId string) (*Session, error)
	TerminateSession(session *Session)
	ReconnectSession(session *Session, conn *websocket.Conn)
	HandleAbnormalClosureSession(session *Session) error

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)

	GetSessionGame(session *Session) *ms.Game
	SetSessionGame(session *Session, game *ms.Game)
}

type SweepSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

func NewSweepSessionManager() *SweepSessionManager {
	initMapSize := 10

	return &SweepSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: time.Minute * 20,
	}
}

var _ SessionManager = (*SweepSessionManager)(nil)

func (ssm *SweepSessionManager) GetSessionGame(session *Session) *ms.Game {
	return session.game
}

func (ssm *SweepSessionManager) SetSessionGame(session *Session, game *ms.Game) {
	session.game = game
}

func (ssm *SweepSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))

	ssm.mu.Lock()
	ssm.sessions[sessionId] = NewSession(sessionId, conn)
	session := ssm.sessions[sessionId]
	ssm.mu.Unlock()

	return session
}

func (ssm *SweepSessionManager) FindSession(sessionId string) (*Session, error) {
	ssm.mu.RLock()
	defer ssm.mu.RUnlock()

	session, prs := ssm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (ssm *SweepSessionManager) TerminateSession(session *Session) {
	ssm.mu.Lock()
	delete(ssm.sessions, session.id)
	ssm.mu.Unlock()
}

func (ssm *SweepSessionManager) ReconnectSession(session *Session, conn *websocket.Conn) {
	session.reconnectionAfterAbnormalClosure(conn)
}

// To ensure that there is no dangling connections,
// server session manager marks the connections with a
// lifetime of more than 20 mins as stale and deletes them.
func (ssm *SweepSessionManager) CleanupPeriodically() {
	assumedClosedConns := 10

	for {
		time.Sleep(ssm.cleanupInterval)

		ssm.mu.Lock()
		toDelete := make([]string, 0, assumedClosedConns)

		for ID, session := range ssm.sessions {
			if time.Since(session.createdAt) > ssm.cleanupInterval {
				toDelete = append(toDelete, ID)
			}
		}

		log.Println("Clean up sessions:")
		for _, ID := range toDelete {
			delete(ssm.sessions, ID)
			log.Printf("removed: %s", ID)
		}
		ssm.mu.Unlock()
	}
}

// This function takes care of abnormal closures, which mostly happen
// when the browser tab is backgrounded or the device sleeps. The
// game is single-player, so there is no one to notify; the session
// simply waits out a grace period for the same client to reconnect
// with its session id before giving up.
func (ssm *SweepSessionManager) HandleAbnormalClosureSession(s *Session) error {
	timer := time.NewTimer(gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Printf("session terminated: %s\n", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-s.reconnectionSignalChan:
		log.Printf("player reconnected, session: %s\n", s.id)
		return nil
	}
}

func (ssm *SweepSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)

	if err != nil {
		connErr, ok := err.(ConnErr)
		if !ok {
			panic("this will never happen")
		}

		switch connErr.Code() {
		case ConnLoopBreak, ConnInvalidMsgType:
			return connErr

		case ConnLoopAbnormalClosureRetry:
			if err := ssm.HandleAbnormalClosureSession(session); err != nil {
				return connErr
			}
		}
	}

	return nil
}

func (ssm *SweepSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := ssm.HandleAbnormalClosureSession(session); err != nil {
				return -1, []byte{}, err
			}

		default:
			return -1, []byte{}, err
		}
	}
}
