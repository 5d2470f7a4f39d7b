package model

import "github.com/cayleygraph/quad"

func entityKind(name string) *Kind {
	return &Kind{Name: name, Class: schemaIRI(name)}
}

func stubKind(name, class string) *Kind {
	return &Kind{Name: name, Class: schemaIRI(class)}
}

// Entity kinds.
var (
	ThingKind                  = entityKind("Thing")
	CreativeWorkKind           = entityKind("CreativeWork")
	MediaObjectKind            = entityKind("MediaObject")
	TextObjectKind             = entityKind("TextObject")
	AudioObjectKind            = entityKind("AudioObject")
	ImageObjectKind            = entityKind("ImageObject")
	MusicRecordingKind         = entityKind("MusicRecording")
	MusicPlaylistKind          = entityKind("MusicPlaylist")
	EventKind                  = entityKind("Event")
	PublicationEventKind       = entityKind("PublicationEvent")
	BroadcastEventKind         = entityKind("BroadcastEvent")
	PersonKind                 = entityKind("Person")
	OrganizationKind           = entityKind("Organization")
	GovernmentOrganizationKind = entityKind("GovernmentOrganization")
	PlaceKind                  = entityKind("Place")
	PostalAddressKind          = entityKind("PostalAddress")
	RoleKind                   = entityKind("Role")
	OrganizationRoleKind       = entityKind("OrganizationRole")
	ActionKind                 = entityKind("Action")
	AssessActionKind           = entityKind("AssessAction")
	ChooseActionKind           = entityKind("ChooseAction")
	VoteActionKind             = entityKind("VoteAction")
)

// Stub kinds. A stub kind shares the class of the entity kind it mirrors.
var (
	ThingStubKind          = stubKind("ThingStub", "Thing")
	CreativeWorkStubKind   = stubKind("CreativeWorkStub", "CreativeWork")
	MusicRecordingStubKind = stubKind("MusicRecordingStub", "MusicRecording")
	EventStubKind          = stubKind("EventStub", "Event")
	PersonStubKind         = stubKind("PersonStub", "Person")
	OrganizationStubKind   = stubKind("OrganizationStub", "Organization")
	PlaceStubKind          = stubKind("PlaceStub", "Place")
)

func init() {
	PostalAddressKind.ContentAddressed = true
	RoleKind.ContentAddressed = true
	OrganizationRoleKind.ContentAddressed = true

	// Stub kinds first: entity fields embed them.
	ThingStubKind.define(nil, thingStubFields(), func() Entity { return &ThingStub{} })
	CreativeWorkStubKind.define(ThingStubKind, creativeWorkStubFields(), func() Entity { return &CreativeWorkStub{} })
	MusicRecordingStubKind.define(CreativeWorkStubKind, musicRecordingStubFields(), func() Entity { return &MusicRecordingStub{} })
	EventStubKind.define(ThingStubKind, eventStubFields(), func() Entity { return &EventStub{} })
	PersonStubKind.define(ThingStubKind, personStubFields(), func() Entity { return &PersonStub{} })
	OrganizationStubKind.define(ThingStubKind, nil, func() Entity { return &OrganizationStub{} })
	PlaceStubKind.define(ThingStubKind, nil, func() Entity { return &PlaceStub{} })

	ThingKind.define(nil, thingFields(), nil)

	CreativeWorkKind.define(ThingKind, creativeWorkFields(), func() Entity { return &CreativeWork{} })
	MediaObjectKind.define(CreativeWorkKind, mediaObjectFields(), func() Entity { return &MediaObject{} })
	TextObjectKind.define(MediaObjectKind, textObjectFields(), func() Entity { return &TextObject{} })
	AudioObjectKind.define(MediaObjectKind, audioObjectFields(), func() Entity { return &AudioObject{} })
	ImageObjectKind.define(MediaObjectKind, imageObjectFields(), func() Entity { return &ImageObject{} })
	MusicRecordingKind.define(CreativeWorkKind, musicRecordingFields(), func() Entity { return &MusicRecording{} })
	MusicPlaylistKind.define(CreativeWorkKind, musicPlaylistFields(), func() Entity { return &MusicPlaylist{} })

	EventKind.define(ThingKind, eventFields(), func() Entity { return &Event{} })
	PublicationEventKind.define(EventKind, publicationEventFields(), func() Entity { return &PublicationEvent{} })
	BroadcastEventKind.define(PublicationEventKind, broadcastEventFields(), func() Entity { return &BroadcastEvent{} })

	PersonKind.define(ThingKind, personFields(), func() Entity { return &Person{} })

	OrganizationKind.define(ThingKind, organizationFields(), func() Entity { return &Organization{} })
	GovernmentOrganizationKind.define(OrganizationKind, governmentOrganizationFields(), func() Entity { return &GovernmentOrganization{} })

	PlaceKind.define(ThingKind, placeFields(), func() Entity { return &Place{} })
	PostalAddressKind.define(ThingKind, postalAddressFields(), func() Entity { return &PostalAddress{} })

	RoleKind.define(ThingKind, roleFields(), func() Entity { return &Role{} })
	OrganizationRoleKind.define(RoleKind, organizationRoleFields(), func() Entity { return &OrganizationRole{} })

	ActionKind.define(ThingKind, actionFields(), func() Entity { return &Action{} })
	AssessActionKind.define(ActionKind, nil, func() Entity { return &AssessAction{} })
	ChooseActionKind.define(AssessActionKind, chooseActionFields(), func() Entity { return &ChooseAction{} })
	VoteActionKind.define(ChooseActionKind, voteActionFields(), func() Entity { return &VoteAction{} })

	ThingStubKind.mirror = ThingKind
	CreativeWorkStubKind.mirror = CreativeWorkKind
	MusicRecordingStubKind.mirror = MusicRecordingKind
	EventStubKind.mirror = EventKind
	PersonStubKind.mirror = PersonKind
	OrganizationStubKind.mirror = OrganizationKind
	PlaceStubKind.mirror = PlaceKind
}

// Identifier and Kind for every concrete type.

func (x *CreativeWork) Identifier() quad.Value           { return identify(x) }
func (x *MediaObject) Identifier() quad.Value            { return identify(x) }
func (x *TextObject) Identifier() quad.Value             { return identify(x) }
func (x *AudioObject) Identifier() quad.Value            { return identify(x) }
func (x *ImageObject) Identifier() quad.Value            { return identify(x) }
func (x *MusicRecording) Identifier() quad.Value         { return identify(x) }
func (x *MusicPlaylist) Identifier() quad.Value          { return identify(x) }
func (x *Event) Identifier() quad.Value                  { return identify(x) }
func (x *PublicationEvent) Identifier() quad.Value       { return identify(x) }
func (x *BroadcastEvent) Identifier() quad.Value         { return identify(x) }
func (x *Person) Identifier() quad.Value                 { return identify(x) }
func (x *Organization) Identifier() quad.Value           { return identify(x) }
func (x *GovernmentOrganization) Identifier() quad.Value { return identify(x) }
func (x *Place) Identifier() quad.Value                  { return identify(x) }
func (x *PostalAddress) Identifier() quad.Value          { return identify(x) }
func (x *Role) Identifier() quad.Value                   { return identify(x) }
func (x *OrganizationRole) Identifier() quad.Value       { return identify(x) }
func (x *Action) Identifier() quad.Value                 { return identify(x) }
func (x *AssessAction) Identifier() quad.Value           { return identify(x) }
func (x *ChooseAction) Identifier() quad.Value           { return identify(x) }
func (x *VoteAction) Identifier() quad.Value             { return identify(x) }
func (x *ThingStub) Identifier() quad.Value              { return identify(x) }
func (x *CreativeWorkStub) Identifier() quad.Value       { return identify(x) }
func (x *MusicRecordingStub) Identifier() quad.Value     { return identify(x) }
func (x *EventStub) Identifier() quad.Value              { return identify(x) }
func (x *PersonStub) Identifier() quad.Value             { return identify(x) }
func (x *OrganizationStub) Identifier() quad.Value       { return identify(x) }
func (x *PlaceStub) Identifier() quad.Value              { return identify(x) }

func (*CreativeWork) Kind() *Kind           { return CreativeWorkKind }
func (*MediaObject) Kind() *Kind            { return MediaObjectKind }
func (*TextObject) Kind() *Kind             { return TextObjectKind }
func (*AudioObject) Kind() *Kind            { return AudioObjectKind }
func (*ImageObject) Kind() *Kind            { return ImageObjectKind }
func (*MusicRecording) Kind() *Kind         { return MusicRecordingKind }
func (*MusicPlaylist) Kind() *Kind          { return MusicPlaylistKind }
func (*Event) Kind() *Kind                  { return EventKind }
func (*PublicationEvent) Kind() *Kind       { return PublicationEventKind }
func (*BroadcastEvent) Kind() *Kind         { return BroadcastEventKind }
func (*Person) Kind() *Kind                 { return PersonKind }
func (*Organization) Kind() *Kind           { return OrganizationKind }
func (*GovernmentOrganization) Kind() *Kind { return GovernmentOrganizationKind }
func (*Place) Kind() *Kind                  { return PlaceKind }
func (*PostalAddress) Kind() *Kind          { return PostalAddressKind }
func (*Role) Kind() *Kind                   { return RoleKind }
func (*OrganizationRole) Kind() *Kind       { return OrganizationRoleKind }
func (*Action) Kind() *Kind                 { return ActionKind }
func (*AssessAction) Kind() *Kind           { return AssessActionKind }
func (*ChooseAction) Kind() *Kind           { return ChooseActionKind }
func (*VoteAction) Kind() *Kind             { return VoteActionKind }
func (*ThingStub) Kind() *Kind              { return ThingStubKind }
func (*CreativeWorkStub) Kind() *Kind       { return CreativeWorkStubKind }
func (*MusicRecordingStub) Kind() *Kind     { return MusicRecordingStubKind }
func (*EventStub) Kind() *Kind              { return EventStubKind }
func (*PersonStub) Kind() *Kind             { return PersonStubKind }
func (*OrganizationStub) Kind() *Kind       { return OrganizationStubKind }
func (*PlaceStub) Kind() *Kind              { return PlaceStubKind }
