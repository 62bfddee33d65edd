package relay

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Client is a registered peer. Roster order is arrival order, which the
// auto-increment ID preserves.
type Client struct {
	ID          uint `gorm:"primaryKey"`
	Nickname    string
	RemoteAddr  string
	ConnectedAt int64
}

func NewDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open relay db %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Client{}); err != nil {
		return nil, fmt.Errorf("migrate relay db: %w", err)
	}
	return db, nil
}

type ClientStore struct {
	db *gorm.DB
}

func NewClientStore(db *gorm.DB) *ClientStore {
	return &ClientStore{db: db}
}

func (cs *ClientStore) CreateClient(nickname, remoteAddr string) error {
	client := Client{
		Nickname:    nickname,
		RemoteAddr:  remoteAddr,
		ConnectedAt: time.Now().Unix(),
	}
	return cs.db.Create(&client).Error
}

func (cs *ClientStore) DeleteClient(nickname string) error {
	return cs.db.Where("nickname = ?", nickname).Delete(&Client{}).Error
}

func (cs *ClientStore) ListNicknames() ([]string, error) {
	var clients []Client
	if err := cs.db.Order("id asc").Find(&clients).Error; err != nil {
		return nil, err
	}

	nicknames := make([]string, 0, len(clients))
	for _, client := range clients {
		nicknames = append(nicknames, client.Nickname)
	}
	return nicknames, nil
}
