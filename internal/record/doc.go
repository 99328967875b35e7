// Package record defines the museum-object record and its fixed column schema.
//
// Columns is the single ordered field list shared by the CSV mapper, the CSV
// serializer, both SQL stores and the upload header check. Position matters:
// column i of an uploaded file is always Columns[i].
//
// # Defaults
//
// Empty raw values are replaced before coercion:
//   - optional strings become ""
//   - galleryNumber and constituentID become -1
//   - artistGender and gender become "male"
//   - booleans become false, accessionYear becomes 0
//
// objectId is never defaulted.
//
// # Errors
//
// All domain failures are *Error values carrying one of the codes
// VALIDATION, CONFLICT, NOT_FOUND or TRANSPORT. Use IsValidation, IsConflict,
// IsNotFound and IsTransport to classify wrapped errors.
package record
