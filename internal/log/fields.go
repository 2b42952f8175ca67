package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldProviderID   = "provider_id"
	FieldProviderType = "provider_type"
	FieldListingID    = "listing_id"
	FieldFoodName     = "food_name"
	FieldQuantity     = "quantity"
	FieldReceiverID   = "receiver_id"
	FieldClaimID      = "claim_id"
	FieldClaimStatus  = "claim_status"
	FieldCity         = "city"
	FieldSheetsRef    = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
	ComponentIngest   = "ingest"
	ComponentBackend  = "backend"
	ComponentClaims   = "claims"
	ComponentListings = "listings"
)
