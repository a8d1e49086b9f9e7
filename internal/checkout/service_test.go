package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/felipe25/tienda-backend/internal/orders"
	"github.com/felipe25/tienda-backend/internal/users"
	"github.com/felipe25/tienda-backend/pkg/db/models"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Usuario{},
		&models.Producto{},
		&models.Carrito{},
		&models.DetalleCompra{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(orders.NewRepository(db), users.NewRepository(db), &gormTxRunner{db: db}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUsuario(t *testing.T, db *gorm.DB) *models.Usuario {
	t.Helper()
	usuario := &models.Usuario{
		FirebaseUID: "firebase-uid-" + uuid.NewString(),
		Email:       "cliente@example.com",
		Nombre:      "Ana",
		Apellido:    "Gómez",
	}
	if err := db.Create(usuario).Error; err != nil {
		t.Fatalf("seed usuario: %v", err)
	}
	return usuario
}

func seedProducto(t *testing.T, db *gorm.DB, nombre string, precio float64, stock int) *models.Producto {
	t.Helper()
	producto := &models.Producto{
		Nombre: nombre,
		Precio: decimal.NewFromFloat(precio),
		Stock:  stock,
	}
	if err := db.Create(producto).Error; err != nil {
		t.Fatalf("seed producto: %v", err)
	}
	return producto
}

func TestExecutePlacesOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	usuario := seedUsuario(t, db)
	productoA := seedProducto(t, db, "Camisa", 10.00, 5)
	productoB := seedProducto(t, db, "Zapatos", 50.00, 1)
	svc := newTestService(t, db)

	result, err := svc.Execute(ctx, OrderInput{
		FirebaseUID: usuario.FirebaseUID,
		Items: []OrderItem{
			{ID: productoA.ID, Cantidad: 2, Precio: decimal.NewFromFloat(10.00)},
			{ID: productoB.ID, Cantidad: 1, Precio: decimal.NewFromFloat(50.00)},
		},
		Direccion:  "Calle 50, Ciudad de Panamá",
		MetodoPago: "tarjeta",
		Subtotal:   decimal.NewFromFloat(70.00),
		ITBMS:      decimal.NewFromFloat(4.90),
		Total:      decimal.NewFromFloat(74.90),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PedidoID == "" {
		t.Fatal("expected a generated pedido_id")
	}
	if result.UsuarioID != usuario.ID {
		t.Fatalf("expected usuario_id %d, got %d", usuario.ID, result.UsuarioID)
	}
	if result.TotalProductos != 3 {
		t.Fatalf("expected 3 productos, got %d", result.TotalProductos)
	}
	if len(result.CarritosIDs) != 2 {
		t.Fatalf("expected 2 carrito rows, got %d", len(result.CarritosIDs))
	}
	if !result.Subtotal.Equal(decimal.NewFromFloat(70.00)) {
		t.Fatalf("expected subtotal 70.00, got %s", result.Subtotal)
	}
	if !result.ITBMS.Equal(decimal.NewFromFloat(4.90)) {
		t.Fatalf("expected itbms 4.90, got %s", result.ITBMS)
	}
	if !result.Total.Equal(decimal.NewFromFloat(74.90)) {
		t.Fatalf("expected total 74.90, got %s", result.Total)
	}

	var afterA, afterB models.Producto
	if err := db.First(&afterA, productoA.ID).Error; err != nil {
		t.Fatalf("reload producto A: %v", err)
	}
	if err := db.First(&afterB, productoB.ID).Error; err != nil {
		t.Fatalf("reload producto B: %v", err)
	}
	if afterA.Stock != 3 || afterA.Comprados != 2 {
		t.Fatalf("expected A at stock 3 / comprados 2, got %d / %d", afterA.Stock, afterA.Comprados)
	}
	if afterB.Stock != 0 || afterB.Comprados != 1 {
		t.Fatalf("expected B at stock 0 / comprados 1, got %d / %d", afterB.Stock, afterB.Comprados)
	}

	var carritos []models.Carrito
	if err := db.Where("pedido_id = ?", result.PedidoID).Find(&carritos).Error; err != nil {
		t.Fatalf("load carritos: %v", err)
	}
	if len(carritos) != 2 {
		t.Fatalf("expected 2 carrito rows, got %d", len(carritos))
	}
	for _, carrito := range carritos {
		if carrito.Status != "pendiente" {
			t.Fatalf("expected status pendiente, got %s", carrito.Status)
		}
	}

	var detalles int64
	if err := db.Model(&models.DetalleCompra{}).Where("id_usuario = ?", usuario.ID).Count(&detalles).Error; err != nil {
		t.Fatalf("count detalles: %v", err)
	}
	if detalles != 2 {
		t.Fatalf("expected 2 detalles de compra, got %d", detalles)
	}
}

func TestExecuteInsufficientStockLeavesNothingBehind(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	usuario := seedUsuario(t, db)
	productoA := seedProducto(t, db, "Camisa", 10.00, 5)
	productoB := seedProducto(t, db, "Zapatos", 50.00, 1)
	svc := newTestService(t, db)

	_, err := svc.Execute(ctx, OrderInput{
		FirebaseUID: usuario.FirebaseUID,
		Items: []OrderItem{
			{ID: productoA.ID, Cantidad: 2},
			{ID: productoB.ID, Cantidad: 3},
		},
		Direccion:  "Calle 50",
		MetodoPago: "efectivo",
		Subtotal:   decimal.NewFromFloat(170.00),
	})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeCapacity {
		t.Fatalf("expected capacity error, got %v", err)
	}

	var afterA models.Producto
	if err := db.First(&afterA, productoA.ID).Error; err != nil {
		t.Fatalf("reload producto A: %v", err)
	}
	if afterA.Stock != 5 || afterA.Comprados != 0 {
		t.Fatalf("expected A untouched at 5 / 0, got %d / %d", afterA.Stock, afterA.Comprados)
	}

	var carritos int64
	if err := db.Model(&models.Carrito{}).Count(&carritos).Error; err != nil {
		t.Fatalf("count carritos: %v", err)
	}
	if carritos != 0 {
		t.Fatalf("expected no carrito rows, got %d", carritos)
	}
}

func TestExecuteRecomputesFromCurrentPrecio(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	usuario := seedUsuario(t, db)
	producto := seedProducto(t, db, "Camisa", 12.50, 5)
	svc := newTestService(t, db)

	// the client echoes a stale precio; the stored one wins
	result, err := svc.Execute(ctx, OrderInput{
		FirebaseUID: usuario.FirebaseUID,
		Items: []OrderItem{
			{ID: producto.ID, Cantidad: 2, Precio: decimal.NewFromFloat(12.49)},
		},
		Direccion:  "Calle 50",
		MetodoPago: "efectivo",
		Subtotal:   decimal.NewFromFloat(25.00),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Subtotal.Equal(decimal.NewFromFloat(25.00)) {
		t.Fatalf("expected subtotal 25.00 from stored precio, got %s", result.Subtotal)
	}
}

func TestExecuteRejectsTotalsMismatch(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	usuario := seedUsuario(t, db)
	producto := seedProducto(t, db, "Camisa", 10.00, 5)
	svc := newTestService(t, db)

	_, err := svc.Execute(ctx, OrderInput{
		FirebaseUID: usuario.FirebaseUID,
		Items: []OrderItem{
			{ID: producto.ID, Cantidad: 2},
		},
		Direccion:  "Calle 50",
		MetodoPago: "efectivo",
		Subtotal:   decimal.NewFromFloat(15.00),
	})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	var afterA models.Producto
	if err := db.First(&afterA, producto.ID).Error; err != nil {
		t.Fatalf("reload producto: %v", err)
	}
	if afterA.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", afterA.Stock)
	}
}

func TestExecuteUnknownUsuario(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Execute(context.Background(), OrderInput{
		FirebaseUID: "firebase-uid-inexistente",
		Items:       []OrderItem{{ID: 1, Cantidad: 1}},
		Direccion:   "Calle 50",
		MetodoPago:  "efectivo",
	})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExecuteValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	usuario := seedUsuario(t, db)
	svc := newTestService(t, db)

	cases := []struct {
		name  string
		input OrderInput
	}{
		{
			name: "short firebase uid",
			input: OrderInput{
				FirebaseUID: "corto",
				Items:       []OrderItem{{ID: 1, Cantidad: 1}},
				Direccion:   "Calle 50",
				MetodoPago:  "efectivo",
			},
		},
		{
			name: "empty direccion",
			input: OrderInput{
				FirebaseUID: usuario.FirebaseUID,
				Items:       []OrderItem{{ID: 1, Cantidad: 1}},
				Direccion:   "   ",
				MetodoPago:  "efectivo",
			},
		},
		{
			name: "bad metodo de pago",
			input: OrderInput{
				FirebaseUID: usuario.FirebaseUID,
				Items:       []OrderItem{{ID: 1, Cantidad: 1}},
				Direccion:   "Calle 50",
				MetodoPago:  "bitcoin",
			},
		},
		{
			name: "no items",
			input: OrderInput{
				FirebaseUID: usuario.FirebaseUID,
				Direccion:   "Calle 50",
				MetodoPago:  "efectivo",
			},
		},
		{
			name: "zero cantidad",
			input: OrderInput{
				FirebaseUID: usuario.FirebaseUID,
				Items:       []OrderItem{{ID: 1, Cantidad: 0}},
				Direccion:   "Calle 50",
				MetodoPago:  "efectivo",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Execute(ctx, tc.input)
			if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestExecuteCompetingOrdersOnlyOneWins(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	usuario := seedUsuario(t, db)
	producto := seedProducto(t, db, "Camisa", 10.00, 10)
	svc := newTestService(t, db)

	order := func() error {
		_, err := svc.Execute(ctx, OrderInput{
			FirebaseUID: usuario.FirebaseUID,
			Items: []OrderItem{
				{ID: producto.ID, Cantidad: 6},
			},
			Direccion:  "Calle 50",
			MetodoPago: "efectivo",
			Subtotal:   decimal.NewFromFloat(60.00),
		})
		return err
	}

	if err := order(); err != nil {
		t.Fatalf("first order: %v", err)
	}
	err := order()
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeCapacity {
		t.Fatalf("expected capacity error for the second order, got %v", err)
	}

	var after models.Producto
	if err := db.First(&after, producto.ID).Error; err != nil {
		t.Fatalf("reload producto: %v", err)
	}
	if after.Stock != 4 {
		t.Fatalf("expected stock 4 after one order of 6, got %d", after.Stock)
	}
}
