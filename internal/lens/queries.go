package lens

// GraphQL rejects documents carrying unused fragments, so each query
// appends exactly the fragments it spreads.
const (
	fragProfile = `
fragment ProfileFields on Profile {
  id
  handle { localName fullHandle }
  ownedBy { address }
  metadata {
    displayName
    bio
    picture {
      __typename
      ... on ImageSet { optimized { uri } raw { uri } }
      ... on NftImage { image { optimized { uri } raw { uri } } }
    }
  }
  stats { followers following }
}
`
	fragMedia = `
fragment MediaFields on PublicationMetadataMedia {
  ... on PublicationMetadataMediaImage { image { optimized { uri } raw { uri } } }
  ... on PublicationMetadataMediaVideo { video { optimized { uri } raw { uri } } cover { optimized { uri } raw { uri } } }
  ... on PublicationMetadataMediaAudio { audio { optimized { uri } raw { uri } } cover { optimized { uri } raw { uri } } }
}
`
	fragMetadata = `
fragment MetadataFields on PublicationMetadata {
  __typename
  ... on TextOnlyMetadataV3 { content }
  ... on ArticleMetadataV3 { content }
  ... on LinkMetadataV3 { content }
  ... on EmbedMetadataV3 { content }
  ... on ImageMetadataV3 { content asset { ...MediaFields } }
  ... on VideoMetadataV3 { content asset { ...MediaFields } }
  ... on AudioMetadataV3 { content asset { ...MediaFields } }
}
`
	fragStats = `
fragment StatsFields on PublicationStats {
  comments
  mirrors
  upvotes: reactions(request: { type: UPVOTE })
  collects: countOpenActions
}
`
	fragPost = `
fragment PostFields on Post {
  __typename id createdAt
  by { ...ProfileFields }
  metadata { ...MetadataFields }
  stats { ...StatsFields }
  operations { hasUpvoted: hasReacted(request: { type: UPVOTE }) }
}
`
	fragCommentBase = `
fragment CommentBaseFields on Comment {
  __typename id createdAt
  by { ...ProfileFields }
  metadata { ...MetadataFields }
  stats { ...StatsFields }
  operations { hasUpvoted: hasReacted(request: { type: UPVOTE }) }
}
`
	fragQuoteBase = `
fragment QuoteBaseFields on Quote {
  __typename id createdAt
  by { ...ProfileFields }
  metadata { ...MetadataFields }
  stats { ...StatsFields }
  operations { hasUpvoted: hasReacted(request: { type: UPVOTE }) }
}
`
	fragComment = `
fragment CommentFields on Comment {
  ...CommentBaseFields
  commentOn {
    ... on Post { ...PostFields }
    ... on Comment { ...CommentBaseFields }
    ... on Quote { ...QuoteBaseFields }
  }
}
`
	fragQuote = `
fragment QuoteFields on Quote {
  ...QuoteBaseFields
  quoteOn {
    ... on Post { ...PostFields }
    ... on Comment { ...CommentBaseFields }
    ... on Quote { ...QuoteBaseFields }
  }
}
`
	fragMirror = `
fragment MirrorFields on Mirror {
  __typename id createdAt
  by { ...ProfileFields }
  mirrorOn {
    ... on Post { ...PostFields }
    ... on Comment { ...CommentFields }
    ... on Quote { ...QuoteFields }
  }
}
`
)

// Comments and quotes select their target one level deep; mirrors select the
// full target so a mirrored quote still carries what it quotes.
const (
	primaryFragments = fragProfile + fragMedia + fragMetadata + fragStats +
		fragPost + fragCommentBase + fragQuoteBase + fragQuote
	publicationFragments = primaryFragments + fragComment + fragMirror
)

const anyPublication = `
  ... on Post { ...PostFields }
  ... on Comment { ...CommentFields }
  ... on Quote { ...QuoteFields }
  ... on Mirror { ...MirrorFields }
`

const queryExplore = `
query Explore($cursor: Cursor) {
  result: explorePublications(request: {
    orderBy: LATEST
    where: { publicationTypes: [POST, QUOTE] }
    limit: TwentyFive
    cursor: $cursor
  }) {
    items {` + anyPublication + `}
    pageInfo { next }
  }
}
` + publicationFragments

const queryFeed = `
query Feed($profileId: ProfileId!, $cursor: Cursor) {
  result: feed(request: { where: { for: $profileId }, cursor: $cursor }) {
    items {
      root {
        ... on Post { ...PostFields }
        ... on Quote { ...QuoteFields }
      }
    }
    pageInfo { next }
  }
}
` + primaryFragments

const queryProfilePublications = `
query ProfilePublications($profileId: ProfileId!, $cursor: Cursor) {
  result: publications(request: {
    where: { from: [$profileId], publicationTypes: [POST, QUOTE, MIRROR, COMMENT] }
    limit: TwentyFive
    cursor: $cursor
  }) {
    items {` + anyPublication + `}
    pageInfo { next }
  }
}
` + publicationFragments

const queryComments = `
query Comments($id: PublicationId!, $cursor: Cursor) {
  result: publications(request: {
    where: { commentOn: { id: $id } }
    limit: TwentyFive
    cursor: $cursor
  }) {
    items {` + anyPublication + `}
    pageInfo { next }
  }
}
` + publicationFragments

const queryPublication = `
query Publication($id: PublicationId!) {
  result: publication(request: { forId: $id }) {` + anyPublication + `}
}
` + publicationFragments

const queryProfile = `
query Profile($handle: Handle!) {
  result: profile(request: { forHandle: $handle }) { ...ProfileFields }
}
` + fragProfile

const queryProfilesManaged = `
query ProfilesManaged($address: EvmAddress!) {
  result: profilesManaged(request: { for: $address }) {
    items { ...ProfileFields }
  }
}
` + fragProfile

const queryChallenge = `
query Challenge($address: EvmAddress!, $profileId: ProfileId) {
  result: challenge(request: { signedBy: $address, for: $profileId }) { id text }
}
`

const mutationAuthenticate = `
mutation Authenticate($id: ChallengeId!, $signature: Signature!) {
  result: authenticate(request: { id: $id, signature: $signature }) { accessToken refreshToken }
}
`

const mutationRevoke = `
mutation Revoke($authorizationId: UUID!) {
  result: revokeAuthentication(request: { authorizationId: $authorizationId })
}
`

const mutationAddReaction = `
mutation AddReaction($id: PublicationId!, $reaction: PublicationReactionType!) {
  result: addReaction(request: { for: $id, reaction: $reaction })
}
`

const mutationMirror = `
mutation Mirror($id: PublicationId!) {
  result: mirrorOnchain(request: { mirrorOn: $id }) {
    __typename
    ... on RelaySuccess { txHash txId }
    ... on LensProfileManagerRelayError { reason }
  }
}
`

const queryNotifications = `
query Notifications($cursor: Cursor) {
  result: notifications(request: { cursor: $cursor }) {
    items {
      __typename
      ... on ReactionNotification { id }
      ... on CommentNotification { id }
      ... on MirrorNotification { id }
      ... on QuoteNotification { id }
      ... on ActedNotification { id }
      ... on FollowNotification { id }
      ... on MentionNotification { id }
    }
    pageInfo { next }
  }
}
`
