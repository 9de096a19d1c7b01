package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ricadh/hospital-api/internal/models"
)

const (
	colUsers         = "users"
	colPatients      = "patients"
	colAppointments  = "appointments"
	colConsultations = "consultations"
	colImages        = "images"
	colHealthRecords = "health_records"
)

// Mongo implements Store on top of a mongo database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// EnsureIndexes creates the indexes the handlers rely on: the unique email
// index backs duplicate-registration detection, the rest speed up the hot
// lookups.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(colUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = m.db.Collection(colAppointments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("appointments date index: %w", err)
	}

	_, err = m.db.Collection(colHealthRecords).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("health records index: %w", err)
	}
	return nil
}

func objectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// --- users ---

func (m *Mongo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(colUsers).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (m *Mongo) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	var user models.User
	filter := bson.M{"$or": []bson.M{{"email": login}, {"username": login}}}
	err := m.db.Collection(colUsers).FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (m *Mongo) GetUser(ctx context.Context, id string) (models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	err = m.db.Collection(colUsers).FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// --- patients ---

func (m *Mongo) CreatePatient(ctx context.Context, patient models.Patient) (models.Patient, error) {
	patient.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(colPatients).InsertOne(ctx, patient); err != nil {
		return models.Patient{}, fmt.Errorf("insert patient: %w", err)
	}
	return patient, nil
}

func (m *Mongo) GetPatient(ctx context.Context, id string) (models.Patient, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Patient{}, err
	}
	var patient models.Patient
	err = m.db.Collection(colPatients).FindOne(ctx, bson.M{"_id": oid}).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return models.Patient{}, ErrNotFound
	}
	if err != nil {
		return models.Patient{}, fmt.Errorf("get patient: %w", err)
	}
	return patient, nil
}

func (m *Mongo) FindPatientByUserID(ctx context.Context, userID string) (models.Patient, error) {
	oid, err := objectID(userID)
	if err != nil {
		return models.Patient{}, err
	}
	var patient models.Patient
	err = m.db.Collection(colPatients).FindOne(ctx, bson.M{"userId": oid}).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return models.Patient{}, ErrNotFound
	}
	if err != nil {
		return models.Patient{}, fmt.Errorf("find patient by user: %w", err)
	}
	return patient, nil
}

func (m *Mongo) ListPatients(ctx context.Context) ([]models.Patient, error) {
	cursor, err := m.db.Collection(colPatients).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cursor.Close(ctx)

	patients := []models.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return patients, nil
}

func (m *Mongo) UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (models.Patient, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Patient{}, err
	}

	set := bson.M{}
	setIf(set, "name", upd.Name)
	setIf(set, "age", upd.Age)
	setIf(set, "sex", upd.Sex)
	setIf(set, "address", upd.Address)
	setIf(set, "mobile", upd.Mobile)
	setIf(set, "occupation", upd.Occupation)
	setIf(set, "dm", upd.DM)
	setIf(set, "ht", upd.HT)
	setIf(set, "heartDisease", upd.HeartDisease)
	setIf(set, "thyroidDisorder", upd.ThyroidDisorder)
	setIf(set, "allergy", upd.Allergy)
	setIf(set, "allergyDetails", upd.AllergyDetails)
	setIf(set, "currentBpm", upd.CurrentBPM)
	if len(set) == 0 {
		return m.GetPatient(ctx, id)
	}

	var patient models.Patient
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = m.db.Collection(colPatients).
		FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).
		Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return models.Patient{}, ErrNotFound
	}
	if err != nil {
		return models.Patient{}, fmt.Errorf("update patient: %w", err)
	}
	return patient, nil
}

func (m *Mongo) DeletePatient(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.db.Collection(colPatients).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- appointments ---

func (m *Mongo) FindAppointmentsByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	cursor, err := m.db.Collection(colAppointments).Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("find appointments by date: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appointments, nil
}

func (m *Mongo) CreateAppointment(ctx context.Context, apt models.Appointment) (models.Appointment, error) {
	apt.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(colAppointments).InsertOne(ctx, apt); err != nil {
		return models.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return apt, nil
}

func (m *Mongo) ListAppointments(ctx context.Context, q AppointmentQuery) ([]models.Appointment, error) {
	filter := bson.M{}
	if q.PatientID != "" {
		oid, err := objectID(q.PatientID)
		if err != nil {
			return nil, err
		}
		filter["patientId"] = oid
	}
	if q.Date != "" {
		filter["date"] = q.Date
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := m.db.Collection(colAppointments).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appointments, nil
}

func (m *Mongo) UpdateAppointment(ctx context.Context, id string, upd AppointmentUpdate) (models.Appointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Appointment{}, err
	}

	set := bson.M{}
	if upd.PatientID != nil {
		pid, err := objectID(*upd.PatientID)
		if err != nil {
			return models.Appointment{}, err
		}
		set["patientId"] = pid
	}
	setIf(set, "date", upd.Date)
	setIf(set, "time", upd.Time)
	setIf(set, "type", upd.Type)
	setIf(set, "notes", upd.Notes)
	if len(set) == 0 {
		return models.Appointment{}, fmt.Errorf("update appointment: no fields to set")
	}

	var apt models.Appointment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = m.db.Collection(colAppointments).
		FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).
		Decode(&apt)
	if err == mongo.ErrNoDocuments {
		return models.Appointment{}, ErrNotFound
	}
	if err != nil {
		return models.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	return apt, nil
}

func (m *Mongo) DeleteAppointment(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.db.Collection(colAppointments).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- consultations ---

func (m *Mongo) CreateConsultation(ctx context.Context, visit models.Consultation) (models.Consultation, error) {
	visit.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(colConsultations).InsertOne(ctx, visit); err != nil {
		return models.Consultation{}, fmt.Errorf("insert consultation: %w", err)
	}
	return visit, nil
}

func (m *Mongo) ListVisitsByPatient(ctx context.Context, patientID string) ([]Visit, error) {
	oid, err := objectID(patientID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "visitDate", Value: -1}})
	cursor, err := m.db.Collection(colConsultations).Find(ctx, bson.M{"patientId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer cursor.Close(ctx)

	var consultations []models.Consultation
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, fmt.Errorf("decode consultations: %w", err)
	}
	if len(consultations) == 0 {
		return []Visit{}, nil
	}

	visitIDs := make([]primitive.ObjectID, len(consultations))
	for i, c := range consultations {
		visitIDs[i] = c.ID
	}
	imgCursor, err := m.db.Collection(colImages).Find(ctx, bson.M{"visitId": bson.M{"$in": visitIDs}})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer imgCursor.Close(ctx)

	var images []models.ConsultationImage
	if err := imgCursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	byVisit := make(map[primitive.ObjectID][]models.ConsultationImage)
	for _, img := range images {
		byVisit[img.VisitID] = append(byVisit[img.VisitID], img)
	}

	visits := make([]Visit, len(consultations))
	for i, c := range consultations {
		imgs := byVisit[c.ID]
		if imgs == nil {
			imgs = []models.ConsultationImage{}
		}
		visits[i] = Visit{Consultation: c, Images: imgs}
	}
	return visits, nil
}

func (m *Mongo) CreateImage(ctx context.Context, img models.ConsultationImage) (models.ConsultationImage, error) {
	img.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(colImages).InsertOne(ctx, img); err != nil {
		return models.ConsultationImage{}, fmt.Errorf("insert image: %w", err)
	}
	return img, nil
}

// --- health records ---

func (m *Mongo) CreateHealthRecord(ctx context.Context, rec models.HealthRecord) (models.HealthRecord, error) {
	rec.ID = primitive.NewObjectID()
	if _, err := m.db.Collection(colHealthRecords).InsertOne(ctx, rec); err != nil {
		return models.HealthRecord{}, fmt.Errorf("insert health record: %w", err)
	}
	return rec, nil
}

func (m *Mongo) ListHealthRecords(ctx context.Context, userID string, limit int64) ([]models.HealthRecord, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cursor, err := m.db.Collection(colHealthRecords).Find(ctx, bson.M{"userId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.HealthRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode health records: %w", err)
	}
	return records, nil
}

func (m *Mongo) ListHealthRecordsBetween(ctx context.Context, userID string, from, before time.Time) ([]models.HealthRecord, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	window := bson.M{"$gte": from}
	if !before.IsZero() {
		window["$lt"] = before
	}
	cursor, err := m.db.Collection(colHealthRecords).Find(ctx, bson.M{"userId": oid, "timestamp": window})
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.HealthRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode health records: %w", err)
	}
	return records, nil
}

func setIf[T any](set bson.M, key string, v *T) {
	if v != nil {
		set[key] = *v
	}
}
