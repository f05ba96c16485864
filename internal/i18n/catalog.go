package i18n

// Message keys. The English text doubles as the key.
const (
	MsgID            = "ID"
	MsgName          = "Name"
	MsgSKU           = "SKU"
	MsgCategory      = "Category"
	MsgSupplier      = "Supplier"
	MsgUnit          = "Unit"
	MsgQuantity      = "Quantity"
	MsgPrice         = "Price"
	MsgStatus        = "Status"
	MsgLocation      = "Location"
	MsgLastUpdated   = "Last updated"
	MsgContactPerson = "Contact person"
	MsgEmail         = "Email"
	MsgPhone         = "Phone"
	MsgAddress       = "Address"
	MsgTaxNumber     = "Tax number"
	MsgCreated       = "Created"
	MsgItem          = "Item"
	MsgType          = "Type"
	MsgReference     = "Reference"
	MsgNote          = "Note"

	MsgInventory    = "Inventory"
	MsgSuppliers    = "Suppliers"
	MsgTransactions = "Transactions"

	MsgTotalItems        = "Total items"
	MsgTotalUnits        = "Total units"
	MsgStockValue        = "Stock value"
	MsgLowStockTile      = "Low stock items"
	MsgOutOfStockTile    = "Out of stock items"
	MsgActiveSuppliers   = "Active suppliers"
	MsgTransactionsToday = "Transactions today"
	MsgUnitsByCategory   = "Units by category"
	MsgMovements         = "Movements, last 7 days"
	MsgRecent            = "Recent transactions"

	MsgShowing      = "Showing %d of %d records"
	MsgNoRecords    = "No records"
	MsgConfirmDel   = "Delete %s? [y/N] "
	MsgDeleted      = "Deleted %s"
	MsgCancelled    = "Cancelled"
	MsgCreatedRec   = "Created %s"
	MsgUpdatedRec   = "Updated %s"
	MsgSignedIn     = "Signed in as %s <%s>"
	MsgSignedOut    = "Signed out"
	MsgNotSignedIn  = "Not signed in"
	MsgExported     = "Exported %d rows to %s"
	MsgImported     = "Imported %d items, %d failed"
	MsgHealthy      = "Backend healthy (%s)"
	MsgUnhealthy    = "Backend unhealthy: %s"
	MsgCacheUp      = "Cache reachable"
	MsgCacheDown    = "Cache unreachable, dashboards are fetched directly: %s"
	MsgSettingsSave = "Saved settings to %s"
	MsgStockNow     = "Stock of %s is now %d (%s)"
	MsgChartWritten = "Chart written to %s"

	MsgErrValidation = "Please correct the following fields: %s"
	MsgErrAuth       = "Authentication required. Sign in with the login command."
	MsgErrRequest    = "Request failed (%d): %s"
	MsgErrRequestRaw = "Request failed (%d)"
	MsgErrNotFound   = "Record not found"
	MsgErrNetwork    = "Network unreachable. Check the backend address and your connection."
	MsgErrDecode     = "The server sent a response that could not be read"
	MsgErrPartial    = "Partially applied: item %s was updated but its transaction was not recorded (reference %s). It has been reported for reconciliation."
	MsgErrGeneric    = "Error: %s"
)

// Enum value labels
const (
	MsgInStock    = "In stock"
	MsgLowStock   = "Low stock"
	MsgOutOfStock = "Out of stock"
	MsgActive     = "Active"
	MsgInactive   = "Inactive"
	MsgIncoming   = "Incoming"
	MsgOutgoing   = "Outgoing"
)

var labels = map[string]string{
	"in-stock":     MsgInStock,
	"low-stock":    MsgLowStock,
	"out-of-stock": MsgOutOfStock,
	"active":       MsgActive,
	"inactive":     MsgInactive,
	"incoming":     MsgIncoming,
	"outgoing":     MsgOutgoing,
}

type entry struct {
	key string
	es  string
	id  string
}

var entries = []entry{
	{MsgID, "ID", "ID"},
	{MsgName, "Nombre", "Nama"},
	{MsgSKU, "SKU", "SKU"},
	{MsgCategory, "Categoría", "Kategori"},
	{MsgSupplier, "Proveedor", "Pemasok"},
	{MsgUnit, "Unidad", "Satuan"},
	{MsgQuantity, "Cantidad", "Jumlah"},
	{MsgPrice, "Precio", "Harga"},
	{MsgStatus, "Estado", "Status"},
	{MsgLocation, "Ubicación", "Lokasi"},
	{MsgLastUpdated, "Última actualización", "Terakhir diperbarui"},
	{MsgContactPerson, "Persona de contacto", "Narahubung"},
	{MsgEmail, "Correo", "Email"},
	{MsgPhone, "Teléfono", "Telepon"},
	{MsgAddress, "Dirección", "Alamat"},
	{MsgTaxNumber, "NIF", "NPWP"},
	{MsgCreated, "Creado", "Dibuat"},
	{MsgItem, "Artículo", "Barang"},
	{MsgType, "Tipo", "Jenis"},
	{MsgReference, "Referencia", "Referensi"},
	{MsgNote, "Nota", "Catatan"},

	{MsgInventory, "Inventario", "Inventaris"},
	{MsgSuppliers, "Proveedores", "Pemasok"},
	{MsgTransactions, "Movimientos", "Transaksi"},

	{MsgTotalItems, "Artículos", "Total barang"},
	{MsgTotalUnits, "Unidades", "Total unit"},
	{MsgStockValue, "Valor del stock", "Nilai stok"},
	{MsgLowStockTile, "Artículos con stock bajo", "Barang stok menipis"},
	{MsgOutOfStockTile, "Artículos agotados", "Barang stok habis"},
	{MsgActiveSuppliers, "Proveedores activos", "Pemasok aktif"},
	{MsgTransactionsToday, "Movimientos de hoy", "Transaksi hari ini"},
	{MsgUnitsByCategory, "Unidades por categoría", "Unit per kategori"},
	{MsgMovements, "Movimientos, últimos 7 días", "Pergerakan, 7 hari terakhir"},
	{MsgRecent, "Movimientos recientes", "Transaksi terbaru"},

	{MsgShowing, "Mostrando %d de %d registros", "Menampilkan %d dari %d data"},
	{MsgNoRecords, "Sin registros", "Tidak ada data"},
	{MsgConfirmDel, "¿Eliminar %s? [s/N] ", "Hapus %s? [y/N] "},
	{MsgDeleted, "%s eliminado", "%s dihapus"},
	{MsgCancelled, "Cancelado", "Dibatalkan"},
	{MsgCreatedRec, "%s creado", "%s dibuat"},
	{MsgUpdatedRec, "%s actualizado", "%s diperbarui"},
	{MsgSignedIn, "Sesión iniciada como %s <%s>", "Masuk sebagai %s <%s>"},
	{MsgSignedOut, "Sesión cerrada", "Berhasil keluar"},
	{MsgNotSignedIn, "No has iniciado sesión", "Belum masuk"},
	{MsgExported, "%d filas exportadas a %s", "%d baris diekspor ke %s"},
	{MsgImported, "%d artículos importados, %d con errores", "%d barang diimpor, %d gagal"},
	{MsgHealthy, "Servidor disponible (%s)", "Server tersedia (%s)"},
	{MsgUnhealthy, "Servidor no disponible: %s", "Server tidak tersedia: %s"},
	{MsgCacheUp, "Caché disponible", "Cache tersedia"},
	{MsgCacheDown, "Caché no disponible, los paneles se consultan directamente: %s", "Cache tidak tersedia, dasbor diambil langsung: %s"},
	{MsgSettingsSave, "Ajustes guardados en %s", "Pengaturan disimpan ke %s"},
	{MsgStockNow, "El stock de %s es ahora %d (%s)", "Stok %s sekarang %d (%s)"},
	{MsgChartWritten, "Gráfico guardado en %s", "Grafik disimpan ke %s"},

	{MsgErrValidation, "Corrige los siguientes campos: %s", "Perbaiki kolom berikut: %s"},
	{MsgErrAuth, "Se requiere autenticación. Inicia sesión con el comando login.", "Perlu autentikasi. Masuk dengan perintah login."},
	{MsgErrRequest, "La solicitud falló (%d): %s", "Permintaan gagal (%d): %s"},
	{MsgErrRequestRaw, "La solicitud falló (%d)", "Permintaan gagal (%d)"},
	{MsgErrNotFound, "Registro no encontrado", "Data tidak ditemukan"},
	{MsgErrNetwork, "Red inaccesible. Revisa la dirección del servidor y tu conexión.", "Jaringan tidak terjangkau. Periksa alamat server dan koneksi Anda."},
	{MsgErrDecode, "El servidor envió una respuesta ilegible", "Server mengirim respons yang tidak dapat dibaca"},
	{MsgErrPartial, "Aplicado parcialmente: el artículo %s se actualizó pero su movimiento no se registró (referencia %s). Se ha notificado para conciliación.", "Sebagian diterapkan: barang %s diperbarui tetapi transaksinya tidak tercatat (referensi %s). Sudah dilaporkan untuk rekonsiliasi."},
	{MsgErrGeneric, "Error: %s", "Kesalahan: %s"},

	{MsgInStock, "En existencia", "Tersedia"},
	{MsgLowStock, "Stock bajo", "Stok menipis"},
	{MsgOutOfStock, "Agotado", "Stok habis"},
	{MsgActive, "Activo", "Aktif"},
	{MsgInactive, "Inactivo", "Nonaktif"},
	{MsgIncoming, "Entrada", "Masuk"},
	{MsgOutgoing, "Salida", "Keluar"},
}
