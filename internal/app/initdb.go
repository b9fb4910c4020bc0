package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "asisbot"

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default super admin password", zap.Error(err))
		return
	}

	var operator domain.SysOpr
	err = a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "N/A",
			Username:  superUsername,
			Password:  string(hashedPassword),
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
	}
}

var defaultSettings = []domain.SysConfig{
	{Sort: 1, Type: "chat", Name: "ConversationHistoryDays", Value: "365", Remark: "Days to keep chat audit rows"},
	{Sort: 2, Type: "chat", Name: "SystemMonitorEnabled", Value: "true", Remark: "Collect host metrics every 30s"},
}

func (a *Application) checkSettings() {
	for _, item := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", item.Type, item.Name).Count(&count)
		if count > 0 {
			continue
		}
		row := item
		row.ID = common.UUIDint64()
		if err := a.gormDB.Create(&row).Error; err != nil {
			zap.L().Error("failed to seed setting",
				zap.String("type", item.Type), zap.String("name", item.Name), zap.Error(err))
		}
	}
}

type seedProduct struct {
	name        string
	description string
	category    string
	stock       int
	price       float64
	imageUrl    string
}

var seedProducts = []seedProduct{
	{"Kitadol 500mg (x10)", "Analgésico y antipirético.", "Paracetamol", 100, 1500, "https://via.placeholder.com/300x300.png?text=Kitadol"},
	{"Tapsin 1g (x8)", "Para el resfrío y fiebre.", "Paracetamol", 50, 2000, "https://via.placeholder.com/300x300.png?text=Tapsin"},
	{"Paracetamol 1g (x20)", "Genérico.", "Paracetamol", 75, 1800, "https://via.placeholder.com/300x300.png?text=Paracetamol"},
	{"Sal de Fruta ENO", "Para la acidez estomacal.", "Antiácido", 0, 2500, "https://via.placeholder.com/300x300.png?text=ENO"},
	{"Gaviscon Comprimidos", "Alivio rápido de la acidez.", "Antiácido", 30, 4500, "https://via.placeholder.com/300x300.png?text=Gaviscon"},
	{"Ibuprofeno 400mg (x12)", "Antiinflamatorio.", "Ibuprofeno", 120, 1800, "https://via.placeholder.com/300x300.png?text=Ibuprofeno"},
	{"Nurofen Forte 400mg", "Alivio del dolor.", "Ibuprofeno", 40, 3200, "https://via.placeholder.com/300x300.png?text=Nurofen"},
	{"Algodón 100g", "Material de curación.", "Primeros Auxilios", 200, 900, "https://via.placeholder.com/300x300.png?text=Algodon"},
	{"Pachitas (Parches curita x10)", "Para heridas menores.", "Primeros Auxilios", 150, 500, "https://via.placeholder.com/300x300.png?text=Pachitas"},
}

// checkCatalogSeed loads the demo catalog on an empty database so the
// assistant has something to recommend out of the box.
func (a *Application) checkCatalogSeed() {
	var count int64
	if err := a.gormDB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count products", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	categoryIDs := make(map[string]int64)
	for _, sp := range seedProducts {
		cid, ok := categoryIDs[sp.category]
		if !ok {
			category := domain.Category{ID: common.UUIDint64(), Name: sp.category}
			if err := a.gormDB.Create(&category).Error; err != nil {
				zap.L().Error("failed to seed category", zap.String("name", sp.category), zap.Error(err))
				continue
			}
			cid = category.ID
			categoryIDs[sp.category] = cid
		}
		product := domain.Product{
			ID:          common.UUIDint64(),
			Name:        sp.name,
			Description: sp.description,
			CategoryID:  cid,
			Stock:       sp.stock,
			Price:       sp.price,
			ImageUrl:    sp.imageUrl,
		}
		if err := a.gormDB.Create(&product).Error; err != nil {
			zap.L().Error("failed to seed product", zap.String("name", sp.name), zap.Error(err))
		}
	}
	zap.L().Info("seeded demo catalog", zap.Int("products", len(seedProducts)))
}
